package postgres

import (
	"context"
	"fmt"

	"github.com/prismgate/analytics/internal/domain/analytics"
)

// ConversationAggregate returns the top conversations for a (tenant, range)
// pair, ranked by message count, with titles joined from the conversations
// table.
func (s *Source) ConversationAggregate(ctx context.Context, tenantID string, r analytics.DateRange, limit int) (*analytics.ConversationAggregate, error) {
	agg := &analytics.ConversationAggregate{}

	rows, err := s.pool.Query(ctx,
		`SELECT req.conversation_id, COALESCE(conv.title, ''), COUNT(*), COALESCE(SUM(req.cost_usd), 0)
		 FROM ai_requests req
		 LEFT JOIN conversations conv ON conv.id = req.conversation_id
		 WHERE req.tenant_id = $1 AND req.created_at >= $2 AND req.created_at < $3
		   AND req.conversation_id IS NOT NULL
		 GROUP BY req.conversation_id, conv.title
		 ORDER BY COUNT(*) DESC LIMIT $4`,
		tenantID, r.Start, r.End, limit)
	if err != nil {
		return nil, fmt.Errorf("top conversations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c analytics.ConversationUsage
		if err := rows.Scan(&c.ConversationID, &c.Title, &c.MessageCount, &c.CostUSD); err != nil {
			return nil, fmt.Errorf("scan conversation usage: %w", err)
		}
		agg.TopConversations = append(agg.TopConversations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top conversations: %w", err)
	}

	agg.TopConversations = orEmpty(agg.TopConversations)
	return agg, nil
}
