package stats

import (
	"errors"
	"time"
)

var (
	ErrInvalidVersion   = errors.New("version must be a positive integer")
	ErrInvalidProgress  = errors.New("progress must be between 0 and 100")
	ErrInvalidAgreement = errors.New("agreement must be all, agreed or disagreed")
)

// LabelStat is the cumulative vote count per label after Version annotations.
type LabelStat struct {
	Version int
	Labels  []string
	Votes   []int
}

// LabelVoteParams narrows the label-vote history. Version wins over Progress
// on the server; with neither set every version is returned.
type LabelVoteParams struct {
	Before   *time.Time
	Version  *int
	Progress *int
}

func (p LabelVoteParams) Validate() error {
	if p.Version != nil && *p.Version < 1 {
		return ErrInvalidVersion
	}
	if p.Progress != nil && (*p.Progress < 0 || *p.Progress > 100) {
		return ErrInvalidProgress
	}
	return nil
}

// Dataset is an upload batch of a project, shaped for select inputs.
type Dataset struct {
	Text  string
	Value string
}

// Agreement filters report rows by annotator agreement.
type Agreement string

const (
	AgreementAll       Agreement = "all"
	AgreementAgreed    Agreement = "agreed"
	AgreementDisagreed Agreement = "disagreed"
)

func (a Agreement) Valid() bool {
	switch a {
	case AgreementAll, AgreementAgreed, AgreementDisagreed:
		return true
	}
	return false
}

// AllDatasets selects every dataset in a report.
const AllDatasets = "all"

// ReportFilters selects what goes into an annotation report.
// PerspectiveAnswers maps a perspective question id to the accepted answers.
type ReportFilters struct {
	Datasets           []string
	Agreement          Agreement
	PerspectiveAnswers map[int][]string
}

type RowType string

const (
	RowDatasetSummary RowType = "dataset_summary"
	RowCategory       RowType = "category"
	RowSpan           RowType = "span"
	RowRelation       RowType = "relation"
)

type AgreementStats struct {
	Percentage float64
	Total      int
	Agreed     int
	Disagreed  int
}

// ReportRow is either a dataset summary or per-label stats, depending on Type.
type ReportRow struct {
	Type    RowType
	Dataset string

	// Dataset summary.
	TotalDocuments       int
	AnnotatedDocuments   int
	AnnotationPercentage float64

	// Label stats.
	Label       string
	Count       int
	UniqueUsers int
	Agreement   *AgreementStats
}

type Report struct {
	Rows              []ReportRow
	AvailableDatasets []string
}

// Summaries returns the dataset summary rows of the report.
func (r Report) Summaries() []ReportRow {
	out := []ReportRow{}
	for _, row := range r.Rows {
		if row.Type == RowDatasetSummary {
			out = append(out, row)
		}
	}
	return out
}
