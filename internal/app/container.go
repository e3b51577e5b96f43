package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nekogravitycat/annotation-client/internal/annotation"
	"github.com/nekogravitycat/annotation-client/internal/auth"
	"github.com/nekogravitycat/annotation-client/internal/comment"
	"github.com/nekogravitycat/annotation-client/internal/config"
	"github.com/nekogravitycat/annotation-client/internal/discrepancy"
	"github.com/nekogravitycat/annotation-client/internal/history"
	"github.com/nekogravitycat/annotation-client/internal/label"
	"github.com/nekogravitycat/annotation-client/internal/perspective"
	"github.com/nekogravitycat/annotation-client/internal/pkg/httpclient"
	"github.com/nekogravitycat/annotation-client/internal/rule"
	"github.com/nekogravitycat/annotation-client/internal/sequencelabeling"
	"github.com/nekogravitycat/annotation-client/internal/stats"
	"github.com/nekogravitycat/annotation-client/internal/user"
	"github.com/nekogravitycat/annotation-client/internal/voting"
)

// Config holds the dependencies and settings required to build the client.
type Config struct {
	Client config.ClientConfig
	Logger *slog.Logger

	// Registerer receives the client metrics. Nil disables them.
	Registerer prometheus.Registerer

	// OnUnauthorized runs on every 401, e.g. to send the user to the login page.
	OnUnauthorized func(loginURL string)

	HistoryPollInterval time.Duration
}

// Container holds one service per feature area, all sharing a single HTTP client.
type Container struct {
	Client *httpclient.Client

	Auth             auth.Service
	Users            user.Service
	Comments         comment.Service
	Annotations      annotation.Service
	SequenceLabeling sequencelabeling.Service
	CategoryTypes    label.Service
	SpanTypes        label.Service
	RelationTypes    label.Service
	Voting           voting.Service
	Rules            rule.Service
	Discrepancies    discrepancy.Service
	Perspectives     perspective.Service
	History          history.Service
	Stats            stats.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	var metrics *httpclient.Metrics
	if cfg.Registerer != nil {
		metrics = httpclient.NewMetrics(cfg.Registerer)
	}

	client, err := httpclient.New(httpclient.Config{
		BaseURL:        cfg.Client.BaseURL,
		LoginURL:       cfg.Client.LoginURL,
		CSRFCookieName: cfg.Client.CSRFCookieName,
		CSRFHeaderName: cfg.Client.CSRFHeaderName,
		Timeout:        cfg.Client.Timeout,
		OnUnauthorized: cfg.OnUnauthorized,
		Metrics:        metrics,
		Logger:         cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create api client: %w", err)
	}

	// User module
	userService := user.NewService(user.NewAPIRepository(client), client)

	// Annotation module
	annotationRepo, err := annotation.NewAPIRepository(client, annotation.Config{
		FallbackUserIDs: cfg.Client.FallbackUserIDs,
		DegradeOnError:  cfg.Client.DegradeOnError,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid annotation config: %w", err)
	}

	return &Container{
		Client: client,

		Auth:        auth.NewService(auth.NewAPIRepository(client), userService),
		Users:       userService,
		Comments:    comment.NewService(comment.NewAPIRepository(client)),
		Annotations: annotation.NewService(annotationRepo),
		SequenceLabeling: sequencelabeling.NewService(
			sequencelabeling.NewAPISpanRepository(client),
			sequencelabeling.NewAPIRelationRepository(client),
			client,
		),
		CategoryTypes: label.NewService(label.NewAPIRepository(client, label.CategoryType)),
		SpanTypes:     label.NewService(label.NewAPIRepository(client, label.SpanType)),
		RelationTypes: label.NewService(label.NewAPIRepository(client, label.RelationType)),
		Voting:        voting.NewService(voting.NewAPIRepository(client)),
		Rules:         rule.NewService(rule.NewAPIRepository(client), rule.NewAPIDiscussionRepository(client)),
		Discrepancies: discrepancy.NewService(discrepancy.NewAPIRepository(client)),
		Perspectives:  perspective.NewService(perspective.NewAPIRepository(client)),
		History:       history.NewService(history.NewAPIRepository(client), cfg.HistoryPollInterval),
		Stats:         stats.NewService(stats.NewAPIRepository(client)),
	}, nil
}
