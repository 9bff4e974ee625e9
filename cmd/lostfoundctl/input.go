package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/lostfound/internal/domain/item"
	"github.com/kailas-cloud/lostfound/internal/domain/verify"
)

// reportFile is one report as written in an input file. JSON input works too.
type reportFile struct {
	ID          string            `yaml:"id"`
	Title       string            `yaml:"title"`
	Category    string            `yaml:"category"`
	Location    string            `yaml:"location"`
	Date        string            `yaml:"date"`
	Description string            `yaml:"description"`
	ContactInfo string            `yaml:"contact_info"`
	Status      string            `yaml:"status"`
	UserID      string            `yaml:"user_id"`
	Attributes  map[string]string `yaml:"attributes"`
}

// lost converts the entry; without a status it is open for matching.
func (r reportFile) lost() item.Lost {
	status := item.LostStatus(r.Status)
	if status == "" {
		status = item.LostPending
	}
	return item.Lost{
		ID:          r.ID,
		Title:       r.Title,
		Category:    r.Category,
		Location:    r.Location,
		Date:        r.Date,
		Description: r.Description,
		ContactInfo: r.ContactInfo,
		Status:      status,
		UserID:      r.UserID,
		Attributes:  r.Attributes,
	}
}

func (r reportFile) found() item.Found {
	status := item.FoundStatus(r.Status)
	if status == "" {
		status = item.FoundAvailable
	}
	return item.Found{
		ID:          r.ID,
		Title:       r.Title,
		Category:    r.Category,
		Location:    r.Location,
		Date:        r.Date,
		Description: r.Description,
		ContactInfo: r.ContactInfo,
		Status:      status,
		UserID:      r.UserID,
	}
}

type questionFile struct {
	Text           string `yaml:"text"`
	ExpectedAnswer string `yaml:"expected_answer,omitempty"`
}

func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func decodeFile(path string, v any) error {
	data, err := readInput(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// readReports accepts a list of reports or a single one.
func readReports(path string) ([]reportFile, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	var list []reportFile
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var one reportFile
	if err := yaml.Unmarshal(data, &one); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return []reportFile{one}, nil
}

func readLost(path string) ([]item.Lost, error) {
	reports, err := readReports(path)
	if err != nil {
		return nil, err
	}
	out := make([]item.Lost, len(reports))
	for i, r := range reports {
		out[i] = r.lost()
	}
	return out, nil
}

func readFound(path string) ([]item.Found, error) {
	reports, err := readReports(path)
	if err != nil {
		return nil, err
	}
	out := make([]item.Found, len(reports))
	for i, r := range reports {
		out[i] = r.found()
	}
	return out, nil
}

func readQuestions(path string) ([]verify.Question, error) {
	var qs []questionFile
	if err := decodeFile(path, &qs); err != nil {
		return nil, err
	}
	out := make([]verify.Question, len(qs))
	for i, q := range qs {
		out[i] = verify.Question{Text: q.Text, ExpectedAnswer: q.ExpectedAnswer}
	}
	return out, nil
}

func readAnswers(path string) ([]string, error) {
	var answers []string
	if err := decodeFile(path, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}
