// Package calendar reads the pre-generated pickup-date dataset.
package calendar

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ds124wfegd/abfall-notifier/internal/entity"
)

type Loader struct {
	file string
}

func NewLoader(file string) *Loader {
	return &Loader{file: file}
}

// Load reads the dataset file fresh on every call, so out-of-band edits
// take effect on the next dispatch cycle without a restart.
func (l *Loader) Load() ([]entity.Event, error) {
	data, err := os.ReadFile(l.file)
	if err != nil {
		return nil, fmt.Errorf("failed to read calendar file: %w", err)
	}

	var events []entity.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("failed to parse calendar file: %w", err)
	}

	return events, nil
}
