package job

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func instance() *validator.Validate {
	validateOnce.Do(func() { validate = validator.New() })
	return validate
}

// Validate checks a DownloadJob's struct tags before it is persisted:
// non-empty instrument ids, a recognized format, and at least one task.
func Validate(j *DownloadJob) error {
	if err := instance().Struct(j); err != nil {
		return fmt.Errorf("invalid job: %w", err)
	}
	return nil
}
