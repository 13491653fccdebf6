package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sharonv/disclosq/internal/cache"
)

// Group is an umbrella disclosure title covering several concrete event
// types.
type Group struct {
	Title  string   `json:"title" yaml:"title"`
	Events []string `json:"events" yaml:"events"`
}

// UmbrellaIndex maps an umbrella title to the concrete event types it
// expands to.
type UmbrellaIndex map[string][]string

// DefaultUmbrellaIndex returns the built-in umbrella titles used when no
// groups file is configured.
func DefaultUmbrellaIndex() UmbrellaIndex {
	return UmbrellaIndex{
		"הנהלה ונושאי משרה": {
			"מינוי נושא משרה",
			"מינוי דירקטור",
			"שינוי תנאי כהונה",
			"שינוי נושאי משרה",
		},
		"הנפקת ניירות ערך": {
			"הנפקה לציבור",
			"הנפקה פרטית",
			"תוצאות הנפקה",
		},
		"אירועים ועסקאות": {
			"עסקה מהותית",
			"עסקה עם בעל שליטה",
			"מיזוג או פיצול",
		},
	}
}

// LoadGroups reads an umbrella groups file, either a list of Group objects
// or a plain title-to-events map, in JSON or YAML.
func LoadGroups(path string) (UmbrellaIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read groups: %w", err)
	}
	isYAML := false
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		isYAML = true
	}

	var groups []Group
	var listErr error
	if isYAML {
		listErr = yaml.Unmarshal(data, &groups)
	} else {
		listErr = json.Unmarshal(data, &groups)
	}
	if listErr == nil && len(groups) > 0 {
		idx := UmbrellaIndex{}
		for _, g := range groups {
			if g.Title == "" {
				continue
			}
			idx[g.Title] = append(idx[g.Title], g.Events...)
		}
		return idx, nil
	}

	idx := UmbrellaIndex{}
	var mapErr error
	if isYAML {
		mapErr = yaml.Unmarshal(data, &idx)
	} else {
		mapErr = json.Unmarshal(data, &idx)
	}
	if mapErr != nil {
		return nil, fmt.Errorf("parse groups %s: %w", path, mapErr)
	}
	return idx, nil
}

// LoadUmbrellaIndex loads the groups file, memoizing the parsed index in c
// so repeated batch runs do not reread the file. An empty path yields the
// built-in defaults.
func LoadUmbrellaIndex(path string, c cache.Cache) (UmbrellaIndex, error) {
	if path == "" {
		return DefaultUmbrellaIndex(), nil
	}
	key := cache.Key("umbrella:" + path)
	if c != nil {
		if data, ok := c.Get(key); ok {
			idx := UmbrellaIndex{}
			if err := json.Unmarshal(data, &idx); err == nil {
				return idx, nil
			}
		}
	}
	idx, err := LoadGroups(path)
	if err != nil {
		return nil, err
	}
	if c != nil {
		if data, err := json.Marshal(idx); err == nil {
			_ = c.Set(key, data, time.Hour)
		}
	}
	return idx, nil
}
