package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/Dosada05/codm-tournament/models"
)

const firestoreTeamsCollection = "teams"

// firestoreRosterSource reads team snapshots from the registration
// document store. Players are embedded in each team document.
type firestoreRosterSource struct {
	client *firestore.Client
}

func NewFirestoreRosterSource(client *firestore.Client) RosterSource {
	return &firestoreRosterSource{client: client}
}

func (s *firestoreRosterSource) GetTeam(ctx context.Context, teamID string) (*models.Team, error) {
	doc, err := s.client.Collection(firestoreTeamsCollection).Doc(teamID).Get(ctx)
	if doc != nil && !doc.Exists() {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get team %s from firestore: %w", teamID, err)
	}
	return docToTeam(doc)
}

func (s *firestoreRosterSource) ListTeams(ctx context.Context, tournamentID string, status *models.TeamStatus) ([]*models.Team, error) {
	q := s.client.Collection(firestoreTeamsCollection).Where("tournamentId", "==", tournamentID)
	if status != nil {
		q = q.Where("status", "==", string(*status))
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	teams := make([]*models.Team, 0)
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list teams of tournament %s from firestore: %w", tournamentID, err)
		}
		t, err := docToTeam(doc)
		if err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}

	sort.SliceStable(teams, func(i, j int) bool {
		if !teams[i].CreatedAt.Equal(teams[j].CreatedAt) {
			return teams[i].CreatedAt.Before(teams[j].CreatedAt)
		}
		return teams[i].ID < teams[j].ID
	})
	return teams, nil
}

func docToTeam(doc *firestore.DocumentSnapshot) (*models.Team, error) {
	var t models.Team
	if err := doc.DataTo(&t); err != nil {
		return nil, fmt.Errorf("decode team document %s: %w", doc.Ref.ID, err)
	}
	normalizeRosterTeam(doc.Ref.ID, &t)
	return &t, nil
}

// normalizeRosterTeam fills the fields the document store does not carry:
// the team id falls back to the document id, players get their team id and
// roster position, and the captain copy is rebuilt from the roster.
func normalizeRosterTeam(docID string, t *models.Team) {
	if t.ID == "" {
		t.ID = docID
	}
	for i := range t.Players {
		t.Players[i].TeamID = t.ID
		t.Players[i].Position = i + 1
	}
	t.SyncCaptain()
}
