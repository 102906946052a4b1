package inmemdb

import (
	"sync"

	"github.com/trezcool/darasa/core/announcement"
	"github.com/trezcool/darasa/core/poll"
)

type (
	// DB is a process-local database. Its zero value is not usable: use Open.
	DB struct {
		form         *formTable
		announcement *announcementTable
	}

	formTable struct {
		sync.RWMutex
		table map[string]*poll.Form
		// responses are kept per form, in submission order
		responses map[string][]poll.Response
		seq       int64
	}

	announcementTable struct {
		sync.RWMutex
		table map[string]*announcement.Announcement
	}
)

func Open() *DB {
	db := &DB{
		form:         &formTable{},
		announcement: &announcementTable{},
	}
	db.reset()
	return db
}

func (db *DB) reset() {
	db.form.Lock()
	db.form.table = make(map[string]*poll.Form)
	db.form.responses = make(map[string][]poll.Response)
	db.form.seq = 0
	db.form.Unlock()

	db.announcement.Lock()
	db.announcement.table = make(map[string]*announcement.Announcement)
	db.announcement.Unlock()
}

// Close drops all the data.
func (db *DB) Close() error {
	db.reset()
	return nil
}
