package providers

import (
	"errors"
	"fmt"

	"drift/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	for _, section := range []interface{}{&cv.conf.WebServer, &cv.conf.Logger, &cv.conf.Storage} {
		v := validate.Struct(section)
		if !v.Validate() {
			return fmt.Errorf("invalid config: %s", v.Errors.One())
		}
	}

	st := cv.conf.Storage
	switch st.Driver {
	case "file":
		if st.FilePath == "" {
			return errors.New("invalid config: storage.filePath is required for the file driver")
		}
	case "sqlite":
		if st.SqlitePath == "" {
			return errors.New("invalid config: storage.sqlitePath is required for the sqlite driver")
		}
	case "redis":
		if st.RedisAddr == "" {
			return errors.New("invalid config: storage.redisAddr is required for the redis driver")
		}
	}

	p := cv.conf.Progression
	if p.FeedbackMaxDelay < p.FeedbackMinDelay {
		return errors.New("invalid config: progression.feedbackMaxDelay must not be less than feedbackMinDelay")
	}
	if p.Cooldown < 0 {
		return errors.New("invalid config: progression.cooldown must not be negative")
	}
	return nil
}
