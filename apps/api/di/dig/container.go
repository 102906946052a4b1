package dig_container

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/announcement"
	"github.com/trezcool/darasa/core/poll"
	logsvc "github.com/trezcool/darasa/services/logger"
	"github.com/trezcool/darasa/storage/database"
	inmemdb "github.com/trezcool/darasa/storage/database/inmem"
	sqlxrepos "github.com/trezcool/darasa/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// Storage groups the repositories of the configured database engine.
type Storage struct {
	dig.Out
	PollRepo         poll.Repository
	AnnouncementRepo announcement.Repository
	DB               io.Closer
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newStorage(conf *core.Config, loggerParam DBLoggerParam) Storage {
	if conf.Database.Engine == core.EngineInMem {
		loggerParam.Logger.Info("using in-memory storage")
		db := inmemdb.Open()
		return Storage{
			PollRepo:         inmemdb.NewPollRepository(db),
			AnnouncementRepo: inmemdb.NewAnnouncementRepository(db),
			DB:               db,
		}
	}

	setUp := func() (Storage, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return Storage{}, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return Storage{}, err
		}

		if err = database.Migrate(db.DB); err != nil {
			_ = db.Close()
			return Storage{}, err
		}
		return Storage{
			PollRepo:         sqlxrepos.NewPollRepository(db),
			AnnouncementRepo: sqlxrepos.NewAnnouncementRepository(db),
			DB:               db,
		}, nil
	}

	storage, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return storage
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func newServer(
	conf *core.Config,
	logger core.Logger,
	pollSvc *poll.Service,
	annSvc *announcement.Service,
	validate *validator.Validate,
	translator ut.Translator,
) *echoapi.Server {
	return echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:            conf,
			Logger:          logger,
			PollSvc:         pollSvc,
			AnnouncementSvc: annSvc,
			Validate:        validate,
			Translator:      translator,
		},
	)
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStorage))
	must(c.Provide(validator.New))
	must(c.Provide(newTranslator))
	must(c.Provide(poll.NewService))
	must(c.Provide(announcement.NewService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
