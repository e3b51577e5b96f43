package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/nekogravitycat/annotation-client/internal/pkg/httpclient"
	"github.com/nekogravitycat/annotation-client/internal/pkg/response"
)

type Repository interface {
	LabelVotes(ctx context.Context, projectID int, params LabelVoteParams) ([]LabelStat, error)
	Datasets(ctx context.Context, projectID int) ([]Dataset, error)
	Report(ctx context.Context, projectID int, filters ReportFilters) (*Report, error)
}

type apiRepository struct {
	client httpclient.API
}

func NewAPIRepository(client httpclient.API) Repository {
	return &apiRepository{client: client}
}

type labelStatRecord struct {
	Version int      `json:"version"`
	Labels  []string `json:"labels"`
	Votes   []int    `json:"votes"`
}

type datasetRecord struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

type agreementRecord struct {
	Percentage float64 `json:"percentage"`
	Total      int     `json:"total"`
	Agreed     int     `json:"agreed"`
	Disagreed  int     `json:"disagreed"`
}

type reportRowRecord struct {
	Type                 string           `json:"type"`
	Dataset              string           `json:"dataset"`
	TotalDocuments       int              `json:"total_documents"`
	AnnotatedDocuments   int              `json:"annotated_documents"`
	AnnotationPercentage float64          `json:"annotation_percentage"`
	Label                string           `json:"label"`
	Count                int              `json:"count"`
	UniqueUsers          int              `json:"unique_users"`
	Agreement            *agreementRecord `json:"agreement"`
}

type reportRecord struct {
	ReportData        []reportRowRecord `json:"report_data"`
	AvailableDatasets []string          `json:"available_datasets"`
}

// beforeLayout spells UTC as +00:00, which the backend's ISO parser accepts.
const beforeLayout = "2006-01-02T15:04:05-07:00"

func (r *apiRepository) LabelVotes(ctx context.Context, projectID int, params LabelVoteParams) ([]LabelStat, error) {
	query := httpclient.Params{
		"version":  params.Version,
		"progress": params.Progress,
	}
	if params.Before != nil {
		query["before"] = params.Before.UTC().Format(beforeLayout)
	}

	resp, err := r.client.Get(ctx, fmt.Sprintf("/projects/%d/stats/label-votes", projectID), httpclient.WithQuery(query))
	if err != nil {
		return nil, err
	}

	var records []labelStatRecord
	if err := resp.Decode(&records); err != nil {
		return nil, err
	}
	return response.MapItems(records, func(rec labelStatRecord) LabelStat {
		return LabelStat{Version: rec.Version, Labels: rec.Labels, Votes: rec.Votes}
	}), nil
}

func (r *apiRepository) Datasets(ctx context.Context, projectID int) ([]Dataset, error) {
	resp, err := r.client.Get(ctx, fmt.Sprintf("/projects/%d/datasets", projectID))
	if err != nil {
		return nil, err
	}

	var records []datasetRecord
	if err := resp.Decode(&records); err != nil {
		return nil, err
	}
	return response.MapItems(records, func(rec datasetRecord) Dataset {
		return Dataset{Text: rec.Text, Value: rec.Value}
	}), nil
}

func (r *apiRepository) Report(ctx context.Context, projectID int, filters ReportFilters) (*Report, error) {
	query := httpclient.Params{
		"datasets": filters.Datasets,
	}
	if filters.Agreement != "" {
		query["agreement"] = string(filters.Agreement)
	}
	if len(filters.PerspectiveAnswers) > 0 {
		answers := make(map[string][]string, len(filters.PerspectiveAnswers))
		for id, values := range filters.PerspectiveAnswers {
			answers[strconv.Itoa(id)] = values
		}
		encoded, err := json.Marshal(answers)
		if err != nil {
			return nil, fmt.Errorf("failed to encode perspective answers: %w", err)
		}
		query["perspective_answers"] = string(encoded)
	}

	resp, err := r.client.Get(ctx, fmt.Sprintf("/projects/%d/report", projectID), httpclient.WithQuery(query))
	if err != nil {
		return nil, err
	}

	var rec reportRecord
	if err := resp.Decode(&rec); err != nil {
		return nil, err
	}

	available := rec.AvailableDatasets
	if available == nil {
		available = []string{}
	}
	return &Report{
		Rows:              response.MapItems(rec.ReportData, toReportRow),
		AvailableDatasets: available,
	}, nil
}

func toReportRow(rec reportRowRecord) ReportRow {
	row := ReportRow{
		Type:                 RowType(rec.Type),
		Dataset:              rec.Dataset,
		TotalDocuments:       rec.TotalDocuments,
		AnnotatedDocuments:   rec.AnnotatedDocuments,
		AnnotationPercentage: rec.AnnotationPercentage,
		Label:                rec.Label,
		Count:                rec.Count,
		UniqueUsers:          rec.UniqueUsers,
	}
	if rec.Agreement != nil {
		row.Agreement = &AgreementStats{
			Percentage: rec.Agreement.Percentage,
			Total:      rec.Agreement.Total,
			Agreed:     rec.Agreement.Agreed,
			Disagreed:  rec.Agreement.Disagreed,
		}
	}
	return row
}
