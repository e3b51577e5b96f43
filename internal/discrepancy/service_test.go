package discrepancy

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/annotation-client/internal/pkg/apitest"
)

const analysisJSON = `{"discrepancies":[
	{"id":1,"text":"a","percentages":{"POS":50,"NEG":50},"is_discrepancy":true,"max_percentage":50,"diff_count":2},
	{"id":2,"text":"b","percentages":{"POS":100},"is_discrepancy":false,"max_percentage":100}
]}`

func TestService_List(t *testing.T) {
	ctx := context.Background()
	srv := apitest.NewServer(t)
	srv.ReplyRaw(http.MethodGet, "/projects/4/discrepancies", http.StatusOK, analysisJSON)
	svc := NewService(NewAPIRepository(srv.Client))

	threshold := 60
	items, err := svc.List(ctx, 4, Options{
		PerspectiveFilters: map[int][]string{3: {"a", "b"}, 8: {"x"}, 9: nil},
		Threshold:          &threshold,
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].DiffCount)
	assert.Equal(t, 1, items[1].DiffCount, "derived from percentages when absent")
	assert.Equal(t, []string{"NEG", "POS"}, items[0].TopLabels())

	query := srv.LastCall(t).Query
	assert.Equal(t, "a,b", query.Get("perspective_3"))
	assert.Equal(t, "x", query.Get("perspective_8"))
	assert.False(t, query.Has("perspective_9"))
	assert.Equal(t, "60", query.Get("threshold"))

	discrepant, err := svc.ListDiscrepant(ctx, 4, Options{})
	require.NoError(t, err)
	require.Len(t, discrepant, 1)
	assert.Equal(t, 1, discrepant[0].ID)
	assert.Empty(t, srv.LastCall(t).Query)
}

func TestService_ListWithoutExamples(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Reply(http.MethodGet, "/projects/4/discrepancies", http.StatusNotFound, gin.H{"detail": "No examples found for this project."})

	items, err := NewService(NewAPIRepository(srv.Client)).List(context.Background(), 4, Options{})
	require.NoError(t, err)
	assert.Empty(t, items)
}
