package compose

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mendapp/mend/internal/domain"
	"github.com/mendapp/mend/internal/llm"
	"github.com/mendapp/mend/internal/pkg/logger"
)

type summaryOutput struct {
	Summary string   `json:"summary" jsonschema:"description=At most two sentences about the user"`
	Themes  []string `json:"themes" jsonschema:"description=Up to three short lowercase phrases"`
}

// refreshSnapshot starts the detached summary task for a delivered turn.
func (c *Composer) refreshSnapshot(t relayTurn, reply string) {
	if t.userID == "" || c.snapshots == nil {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("conversation summary panicked", "user_id", t.userID, "panic", fmt.Sprint(r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), c.cfg.SummaryTimeout)
		defer cancel()
		if err := c.summarize(ctx, t, reply); err != nil {
			logger.Warn("conversation summary failed", "user_id", t.userID, "error", err)
		}
	}()
}

func (c *Composer) summarize(ctx context.Context, t relayTurn, reply string) error {
	out, err := c.llm.Complete(ctx, llm.Request{
		System:      summarySystem,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: summaryInput(t.prior, t.latest, reply)}},
		MaxTokens:   c.cfg.SummaryMaxTokens,
		Temperature: 0.2,
		Schema:      c.summary,
	})
	if err != nil {
		return fmt.Errorf("summary completion: %w", err)
	}

	snap, err := parseSummary(out)
	if err != nil {
		return err
	}
	snap.UserID = t.userID
	snap.UpdatedAt = c.now().UTC()
	if err := c.snapshots.Put(ctx, snap); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

func parseSummary(raw string) (*domain.ConversationSnapshot, error) {
	var out summaryOutput
	if err := json.Unmarshal([]byte(llm.StripFences(raw)), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSummary, err)
	}
	summary := strings.TrimSpace(out.Summary)
	if summary == "" {
		return nil, fmt.Errorf("%w: empty summary", ErrBadSummary)
	}
	themes := make([]string, 0, domain.MaxSnapshotThemes)
	for _, th := range out.Themes {
		th = strings.ToLower(strings.TrimSpace(th))
		if th == "" {
			continue
		}
		themes = append(themes, th)
		if len(themes) == domain.MaxSnapshotThemes {
			break
		}
	}
	return &domain.ConversationSnapshot{Summary: summary, Themes: themes}, nil
}
