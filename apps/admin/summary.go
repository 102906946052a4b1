package main

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

// summary prints the summary of a form of any institution.
func (cli *commandLine) summary(formID string) error {
	sum, err := cli.pollSvc.Summary(context.Background(), null.String{}, formID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cli.out)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(sum), "encoding summary")
}
