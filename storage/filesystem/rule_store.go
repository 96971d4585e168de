package filesystem

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/revelaction/terms/pattern"
	"github.com/revelaction/terms/storage"
)

// RuleStore keeps each rule in a file <label>.json of the root directory,
// containing the pattern sequences of the rule.
type RuleStore struct {
	root string
}

var _ storage.RuleReader = (*RuleStore)(nil)
var _ storage.RuleWriter = (*RuleStore)(nil)

func NewRuleStore(root string) *RuleStore {
	return &RuleStore{root: root}
}

func (rs *RuleStore) ReadAll() (pattern.Library, error) {
	labels, err := rs.labels()
	if err != nil {
		return nil, err
	}

	lib := pattern.Library{}
	for _, l := range labels {
		r, err := rs.Read(l)
		if err != nil {
			return nil, err
		}

		lib = append(lib, r)
	}

	return lib, nil
}

func (rs *RuleStore) labels() ([]string, error) {
	files, err := os.ReadDir(rs.root)
	if err != nil {
		return nil, err
	}

	labels := []string{}
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".json" {
			continue
		}

		labels = append(labels, strings.TrimSuffix(file.Name(), filepath.Ext(file.Name())))
	}

	return labels, nil
}

func (rs *RuleStore) path(label string) (string, error) {
	if label == "" || strings.ContainsAny(label, `/\`) || label == "." || label == ".." {
		return "", fmt.Errorf("%w: label %q can not be a file name", pattern.ErrInvalidRule, label)
	}

	return filepath.Join(rs.root, label+".json"), nil
}

func (rs *RuleStore) Read(label string) (pattern.Rule, error) {
	p, err := rs.path(label)
	if err != nil {
		return pattern.Rule{}, err
	}

	rf, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return pattern.Rule{}, fmt.Errorf("%w: %s", storage.ErrRuleNotFound, label)
	}

	if err != nil {
		return pattern.Rule{}, err
	}

	r := pattern.Rule{Label: label}
	if err := json.Unmarshal(rf, &r.Pattern); err != nil {
		return pattern.Rule{}, fmt.Errorf("rule %s: %w", label, err)
	}

	if err := r.Validate(); err != nil {
		return pattern.Rule{}, err
	}

	return r, nil
}

func (rs *RuleStore) Write(r pattern.Rule) error {
	if err := r.Validate(); err != nil {
		return err
	}

	p, err := rs.path(r.Label)
	if err != nil {
		return err
	}

	jsonData, err := json.Marshal(r.Pattern)
	if err != nil {
		return err
	}

	// Format the json with each line containing a sequence
	// Remove the first [
	jsonFmt := bytes.TrimPrefix(jsonData, []byte("["))
	// replace the rest with indent
	jsonFmt = bytes.ReplaceAll(jsonFmt, []byte("}],"), []byte("}],\n\t"))
	// remove the last
	jsonFmt = bytes.TrimSuffix(jsonFmt, []byte("]"))
	jsonFmt = append([]byte("[\n\t"), jsonFmt...)
	jsonFmt = append(jsonFmt, []byte("\n]\n")...)

	return os.WriteFile(p, jsonFmt, 0644)
}

func (rs *RuleStore) Delete(label string) error {
	p, err := rs.path(label)
	if err != nil {
		return err
	}

	err = os.Remove(p)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", storage.ErrRuleNotFound, label)
	}

	return err
}
