package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/credgraph/credgraph/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	credibilityBaseline = 50.0
	verifiedWeight      = 30.0
	refutedWeight       = 40.0
	claimTermWeight     = 0.7
	sourceTermWeight    = 0.3

	// highConfidenceClaims is the claim count at which the verdict's
	// confidence level flips from low to high.
	highConfidenceClaims = 3

	// maxChainDepth caps refutation-chain traversal so cyclic edge sets
	// still terminate.
	maxChainDepth = 10

	graphLabelLen    = 50
	timelineClaimLen = 100
)

// GraphService computes derived, read-only views over the repository. It
// never mutates the store directly; every write goes back through the
// repository chokepoint.
type GraphService struct {
	repo   *Repository
	logger *zap.Logger
}

func NewGraphService(repo *Repository, logger *zap.Logger) *GraphService {
	return &GraphService{repo: repo, logger: logger}
}

// CalculateEventCredibility derives an event's trustworthiness from its
// claims: a 50-point baseline moved up by the verified share and down by
// the refuted share, blended 0.7/0.3 with the mean credit score of the
// distinct sources behind the claims. An event with no claims scores a
// neutral 50 at low confidence.
func (g *GraphService) CalculateEventCredibility(ctx context.Context, eventID string) (*domain.EventCredibility, error) {
	if _, err := g.repo.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}

	claims, err := g.repo.GetClaimsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if len(claims) == 0 {
		return &domain.EventCredibility{
			CredibilityScore: credibilityBaseline,
			Confidence:       domain.ConfidenceLow,
			Reason:           "no claims to verify",
		}, nil
	}

	verified, refuted := 0, 0
	for _, c := range claims {
		switch c.Status {
		case domain.ClaimVerified:
			verified++
		case domain.ClaimRefuted:
			refuted++
		}
	}
	total := len(claims)

	score := credibilityBaseline
	score += float64(verified) / float64(total) * verifiedWeight
	score -= float64(refuted) / float64(total) * refutedWeight

	if mean, ok := g.meanSourceCredit(ctx, claims); ok {
		score = score*claimTermWeight + mean*sourceTermWeight
	}

	// The blend keeps the score in range in practice; clamp anyway for
	// report stability.
	score = math.Min(100, math.Max(0, score))

	confidence := domain.ConfidenceLow
	if total >= highConfidenceClaims {
		confidence = domain.ConfidenceHigh
	}

	return &domain.EventCredibility{
		CredibilityScore: math.Round(score*100) / 100,
		VerifiedClaims:   verified,
		RefutedClaims:    refuted,
		TotalClaims:      total,
		Confidence:       confidence,
	}, nil
}

// meanSourceCredit averages the credit scores of the distinct sources
// behind the claims.
func (g *GraphService) meanSourceCredit(ctx context.Context, claims []domain.Claim) (float64, bool) {
	seen := make(map[uuid.UUID]bool)
	sum, n := 0, 0
	for _, c := range claims {
		if seen[c.SourceID] {
			continue
		}
		seen[c.SourceID] = true
		src, err := g.repo.GetSource(ctx, c.SourceID)
		if err != nil {
			g.logger.Warn("claim source missing during credibility calculation",
				zap.String("source_id", c.SourceID.String()), zap.Error(err))
			continue
		}
		sum += src.CreditScore
		n++
	}
	if n == 0 {
		return 0, false
	}
	return float64(sum) / float64(n), true
}

// GenerateEventGraph flattens an event, its claims and their sources into a
// labeled node/edge list for rendering. The output is stable across calls:
// claims follow store order, sources appear in first-mention order and are
// deduplicated by id.
func (g *GraphService) GenerateEventGraph(ctx context.Context, eventID string) (*domain.EventGraph, error) {
	event, err := g.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	claims, err := g.repo.GetClaimsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	graph := &domain.EventGraph{Nodes: []domain.GraphNode{}, Edges: []domain.GraphEdge{}}

	label := event.Title
	if label == "" {
		label = event.ID
	}
	credibility := event.CredibilityScore
	graph.Nodes = append(graph.Nodes, domain.GraphNode{
		ID:          event.ID,
		Type:        domain.NodeEvent,
		Label:       label,
		Credibility: &credibility,
	})

	seenSources := make(map[uuid.UUID]bool)
	for _, claim := range claims {
		claimNodeID := "claim-" + claim.ID.String()
		graph.Nodes = append(graph.Nodes, domain.GraphNode{
			ID:     claimNodeID,
			Type:   domain.NodeClaim,
			Label:  truncate(claim.Text, graphLabelLen),
			Status: string(claim.Status),
		})
		graph.Edges = append(graph.Edges, domain.GraphEdge{
			From: event.ID,
			To:   claimNodeID,
			Type: domain.EdgeHasClaim,
		})

		src, err := g.repo.GetSource(ctx, claim.SourceID)
		if err != nil {
			continue
		}
		sourceNodeID := "source-" + src.ID.String()
		if !seenSources[src.ID] {
			seenSources[src.ID] = true
			credit := src.CreditScore
			graph.Nodes = append(graph.Nodes, domain.GraphNode{
				ID:          sourceNodeID,
				Type:        domain.NodeSource,
				Label:       src.Name,
				CreditScore: &credit,
			})
		}
		graph.Edges = append(graph.Edges, domain.GraphEdge{
			From: sourceNodeID,
			To:   claimNodeID,
			Type: domain.EdgeMadeClaim,
		})
	}

	return graph, nil
}

// GeneratePropagationTimeline orders an event's claims by timestamp, ties
// broken by claim id, annotated with the source that spread each claim.
func (g *GraphService) GeneratePropagationTimeline(ctx context.Context, eventID string) ([]domain.TimelineEntry, error) {
	claims, err := g.repo.GetClaimsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(claims, func(i, j int) bool {
		if !claims[i].Timestamp.Equal(claims[j].Timestamp) {
			return claims[i].Timestamp.Before(claims[j].Timestamp)
		}
		return claims[i].ID.String() < claims[j].ID.String()
	})

	names := make(map[uuid.UUID]string)
	timeline := make([]domain.TimelineEntry, 0, len(claims))
	for _, claim := range claims {
		name, ok := names[claim.SourceID]
		if !ok {
			if src, err := g.repo.GetSource(ctx, claim.SourceID); err == nil {
				name = src.Name
			} else {
				name = "Unknown"
			}
			names[claim.SourceID] = name
		}
		timeline = append(timeline, domain.TimelineEntry{
			Timestamp:  claim.Timestamp,
			SourceName: name,
			Claim:      truncate(claim.Text, timelineClaimLen),
			Status:     claim.Status,
		})
	}
	return timeline, nil
}

// FindRefutationChain walks the refutation edges reachable from a claim in
// both directions, breadth first. A visited set breaks cycles and the depth
// cap guarantees termination regardless of edge shape.
func (g *GraphService) FindRefutationChain(ctx context.Context, claimID uuid.UUID) ([]domain.ChainLink, error) {
	if _, err := g.repo.GetClaim(ctx, claimID); err != nil {
		return nil, err
	}

	type frontier struct {
		id    uuid.UUID
		depth int
	}

	visited := map[uuid.UUID]bool{claimID: true}
	queue := []frontier{{id: claimID}}
	chain := []domain.ChainLink{}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= maxChainDepth {
			continue
		}

		edges, err := g.repo.GetRefutationsByClaim(ctx, cur.id)
		if err != nil {
			return nil, err
		}
		for _, e := range edges {
			var neighbor uuid.UUID
			var direction domain.ChainDirection
			if e.RefutingClaimID == cur.id {
				neighbor = e.RefutedClaimID
				direction = domain.ChainRefutes
			} else {
				neighbor = e.RefutingClaimID
				direction = domain.ChainRefutedBy
			}
			if visited[neighbor] {
				continue
			}
			visited[neighbor] = true
			chain = append(chain, domain.ChainLink{
				ClaimID:    neighbor,
				Direction:  direction,
				Depth:      cur.depth + 1,
				Confidence: e.Confidence,
			})
			queue = append(queue, frontier{id: neighbor, depth: cur.depth + 1})
		}
	}
	return chain, nil
}

// FindClaimPropagationPath is the bounded-BFS contract for the propagation
// relation. No propagation edges are recorded yet, so after validating the
// origin claim the path is always empty.
func (g *GraphService) FindClaimPropagationPath(ctx context.Context, claimID uuid.UUID, maxDepth int) ([]domain.ChainLink, error) {
	if _, err := g.repo.GetClaim(ctx, claimID); err != nil {
		return nil, err
	}
	return []domain.ChainLink{}, nil
}

// BatchUpdateSourceScores applies score deltas one source at a time,
// continuing past failures; it reports how many updates landed. There is
// deliberately no all-or-nothing transaction across sources.
func (g *GraphService) BatchUpdateSourceScores(ctx context.Context, updates []domain.BatchScoreUpdate) int {
	applied := 0
	for _, u := range updates {
		if u.SourceID == uuid.Nil || u.ScoreChange == 0 {
			continue
		}
		if _, err := g.repo.UpdateSourceCreditScore(ctx, u.SourceID, u.ScoreChange); err != nil {
			g.logger.Warn("batch score update failed",
				zap.String("source_id", u.SourceID.String()),
				zap.Int("delta", u.ScoreChange),
				zap.Error(err))
			continue
		}
		applied++
	}
	return applied
}

// AnalyzeSourceNetwork is a contract without an algorithm: coordinated
// behavior detection is not computed yet.
func (g *GraphService) AnalyzeSourceNetwork(ctx context.Context, sourceIDs []uuid.UUID) domain.NetworkAnalysis {
	return domain.NetworkAnalysis{Computed: false, Patterns: []string{}}
}

// DetectBotClusters is a contract without an algorithm: no clusters are
// computed yet.
func (g *GraphService) DetectBotClusters(ctx context.Context, sourceIDs []uuid.UUID, similarityThreshold float64) [][]uuid.UUID {
	return nil
}

// SourceInfluenceScore is a contract without an algorithm: influence is not
// computed yet.
func (g *GraphService) SourceInfluenceScore(ctx context.Context, sourceID uuid.UUID) float64 {
	return 0
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return fmt.Sprintf("%s...", string(runes[:n]))
}
