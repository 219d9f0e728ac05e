package repository

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/opt-report/pkg/model"
)

// ReportRunRecord represents the report_runs table.
type ReportRunRecord struct {
	ID           int64             `gorm:"column:id;primaryKey;autoIncrement"`
	RunID        string            `gorm:"column:run_id;type:varchar(64);uniqueIndex"`
	OutputDir    string            `gorm:"column:output_dir;type:varchar(1024)"`
	Units        int               `gorm:"column:units"`
	Records      int               `gorm:"column:records"`
	Purged       int               `gorm:"column:purged"`
	Filtered     int               `gorm:"column:filtered"`
	HighestCount float64           `gorm:"column:highest_count"`
	Documents    JSONField         `gorm:"column:documents;type:json"`
	IndexURL     string            `gorm:"column:index_url;type:varchar(1024)"`
	CreatedAt    time.Time         `gorm:"column:created_at"`
	PassCounts   []PassCountRecord `gorm:"foreignKey:RunID;references:RunID"`
}

// TableName returns the table name for ReportRunRecord.
func (ReportRunRecord) TableName() string {
	return "report_runs"
}

// PassCountRecord represents the report_pass_counts table.
type PassCountRecord struct {
	ID    int64  `gorm:"column:id;primaryKey;autoIncrement"`
	RunID string `gorm:"column:run_id;type:varchar(64);index"`
	Pass  string `gorm:"column:pass;type:varchar(128)"`
	Count int    `gorm:"column:num_records"`
}

// TableName returns the table name for PassCountRecord.
func (PassCountRecord) TableName() string {
	return "report_pass_counts"
}

// newRunRecord converts a model.ReportRun to its table row.
func newRunRecord(run *model.ReportRun) (*ReportRunRecord, error) {
	docs, err := json.Marshal(run.Documents)
	if err != nil {
		return nil, err
	}
	rec := &ReportRunRecord{
		RunID:        run.RunID,
		OutputDir:    run.OutputDir,
		Units:        run.Units,
		Records:      run.Records,
		Purged:       run.Purged,
		Filtered:     run.Filtered,
		HighestCount: run.HighestCount,
		Documents:    docs,
		IndexURL:     run.IndexURL,
		CreatedAt:    run.CreatedAt,
	}
	for _, pc := range run.PassCounts {
		rec.PassCounts = append(rec.PassCounts, PassCountRecord{RunID: run.RunID, Pass: pc.Pass, Count: pc.Count})
	}
	return rec, nil
}

// ToModel converts ReportRunRecord to model.ReportRun.
func (r *ReportRunRecord) ToModel() (*model.ReportRun, error) {
	run := &model.ReportRun{
		RunID:        r.RunID,
		OutputDir:    r.OutputDir,
		Units:        r.Units,
		Records:      r.Records,
		Purged:       r.Purged,
		Filtered:     r.Filtered,
		HighestCount: r.HighestCount,
		IndexURL:     r.IndexURL,
		CreatedAt:    r.CreatedAt,
		PassCounts:   make([]model.PassCount, 0, len(r.PassCounts)),
	}
	if r.Documents != nil {
		if err := json.Unmarshal(r.Documents, &run.Documents); err != nil {
			return nil, err
		}
	}
	for _, pc := range r.PassCounts {
		run.PassCounts = append(run.PassCounts, model.PassCount{Pass: pc.Pass, Count: pc.Count})
	}
	return run, nil
}

// JSONField is a raw JSON column.
type JSONField []byte

// Value implements driver.Valuer interface.
func (j JSONField) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return []byte(j), nil
}

// Scan implements sql.Scanner interface.
func (j *JSONField) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		*j = append((*j)[0:0], v...)
		return nil
	case string:
		*j = []byte(v)
		return nil
	default:
		return errors.New("unsupported type for JSONField")
	}
}
