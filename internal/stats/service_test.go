package stats

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/annotation-client/internal/pkg/apitest"
)

func intPtr(v int) *int { return &v }

func TestService_LabelVotes(t *testing.T) {
	ctx := context.Background()

	t.Run("Sends filters and decodes snapshots", func(t *testing.T) {
		srv := apitest.NewServer(t)
		srv.ReplyRaw(http.MethodGet, "/projects/4/stats/label-votes", http.StatusOK,
			`[{"version":1,"labels":["POS"],"votes":[1]},{"version":2,"labels":["POS","NEG"],"votes":[1,1]}]`)

		before := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("BRT", -3*3600))
		stats, err := NewService(NewAPIRepository(srv.Client)).LabelVotes(ctx, 4, LabelVoteParams{
			Before:   &before,
			Progress: intPtr(50),
		})
		require.NoError(t, err)
		require.Len(t, stats, 2)
		assert.Equal(t, LabelStat{Version: 2, Labels: []string{"POS", "NEG"}, Votes: []int{1, 1}}, stats[1])

		query := srv.LastCall(t).Query
		assert.Equal(t, "2024-05-01T15:00:00+00:00", query.Get("before"))
		assert.Equal(t, "50", query.Get("progress"))
		assert.False(t, query.Has("version"))
	})

	t.Run("Invalid params never reach the server", func(t *testing.T) {
		srv := apitest.NewServer(t)
		svc := NewService(NewAPIRepository(srv.Client))

		_, err := svc.LabelVotes(ctx, 4, LabelVoteParams{Version: intPtr(0)})
		assert.ErrorIs(t, err, ErrInvalidVersion)

		_, err = svc.LabelVotes(ctx, 4, LabelVoteParams{Version: intPtr(-1)})
		assert.ErrorIs(t, err, ErrInvalidVersion)

		_, err = svc.LabelVotes(ctx, 4, LabelVoteParams{Progress: intPtr(101)})
		assert.ErrorIs(t, err, ErrInvalidProgress)

		assert.Empty(t, srv.Calls())
	})

	t.Run("First version is accepted", func(t *testing.T) {
		srv := apitest.NewServer(t)
		srv.ReplyRaw(http.MethodGet, "/projects/4/stats/label-votes", http.StatusOK, `[]`)

		_, err := NewService(NewAPIRepository(srv.Client)).LabelVotes(ctx, 4, LabelVoteParams{Version: intPtr(1)})
		require.NoError(t, err)
		assert.Equal(t, "1", srv.LastCall(t).Query.Get("version"))
	})

	t.Run("Detail surfaces as the error message", func(t *testing.T) {
		srv := apitest.NewServer(t)
		srv.Reply(http.MethodGet, "/projects/4/stats/label-votes", http.StatusBadRequest,
			gin.H{"detail": "Invalid 'before' param"})

		_, err := NewService(NewAPIRepository(srv.Client)).LabelVotes(ctx, 4, LabelVoteParams{})
		require.Error(t, err)
		assert.Equal(t, "Invalid 'before' param", err.Error())
	})
}

func TestService_Datasets(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Reply(http.MethodGet, "/projects/4/datasets", http.StatusOK,
		[]gin.H{{"text": "train.csv", "value": "train.csv"}})

	datasets, err := NewService(NewAPIRepository(srv.Client)).Datasets(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, []Dataset{{Text: "train.csv", Value: "train.csv"}}, datasets)
}

func TestService_Report(t *testing.T) {
	ctx := context.Background()
	body := `{
		"report_data": [
			{"type":"dataset_summary","dataset":"train","total_documents":4,"annotated_documents":3,"annotation_percentage":75.0},
			{"type":"category","dataset":"train","label":"POS","count":5,"unique_users":2,
			 "agreement":{"percentage":50.0,"total":2,"agreed":1,"disagreed":1}}
		],
		"available_datasets": ["all","train"]
	}`

	t.Run("Encodes filters", func(t *testing.T) {
		srv := apitest.NewServer(t)
		srv.ReplyRaw(http.MethodGet, "/projects/4/report", http.StatusOK, body)

		report, err := NewService(NewAPIRepository(srv.Client)).Report(ctx, 4, ReportFilters{
			Datasets:           []string{"train", "test"},
			Agreement:          AgreementDisagreed,
			PerspectiveAnswers: map[int][]string{7: {"yes"}},
		})
		require.NoError(t, err)

		query := srv.LastCall(t).Query
		assert.Equal(t, []string{"train", "test"}, query["datasets"])
		assert.Equal(t, "disagreed", query.Get("agreement"))
		assert.JSONEq(t, `{"7":["yes"]}`, query.Get("perspective_answers"))

		assert.Equal(t, []string{"all", "train"}, report.AvailableDatasets)
		require.Len(t, report.Rows, 2)
		require.NotNil(t, report.Rows[1].Agreement)
		assert.Equal(t, 1, report.Rows[1].Agreement.Disagreed)
		assert.Equal(t, RowCategory, report.Rows[1].Type)

		summaries := report.Summaries()
		require.Len(t, summaries, 1)
		assert.Equal(t, 75.0, summaries[0].AnnotationPercentage)
	})

	t.Run("All datasets drops the filter and defaults agreement", func(t *testing.T) {
		srv := apitest.NewServer(t)
		srv.ReplyRaw(http.MethodGet, "/projects/4/report", http.StatusOK, body)

		_, err := NewService(NewAPIRepository(srv.Client)).Report(ctx, 4, ReportFilters{Datasets: []string{"all", "train"}})
		require.NoError(t, err)

		query := srv.LastCall(t).Query
		assert.False(t, query.Has("datasets"))
		assert.Equal(t, "all", query.Get("agreement"))
		assert.False(t, query.Has("perspective_answers"))
	})

	t.Run("Unknown agreement", func(t *testing.T) {
		srv := apitest.NewServer(t)
		_, err := NewService(NewAPIRepository(srv.Client)).Report(ctx, 4, ReportFilters{Agreement: "maybe"})
		assert.ErrorIs(t, err, ErrInvalidAgreement)
	})
}
