package domain

import "time"

// Estados de una sesión de matching. La transición es monótona:
// pending -> processing -> completed | failed.
const (
	SessionStatusPending    = "pending"
	SessionStatusProcessing = "processing"
	SessionStatusCompleted  = "completed"
	SessionStatusFailed     = "failed"
)

// PairScore es el resultado del scorer de rasgos para un par de tests.
type PairScore struct {
	EDiff            float64 `json:"e_diff"`
	ODiff            float64 `json:"o_diff"`
	SDiff            float64 `json:"s_diff"`
	ADiff            float64 `json:"a_diff"`
	TraitSimilarity  float64 `json:"trait_similarity"`
	LifestyleBonus   float64 `json:"lifestyle_bonus"`
	ComfortBonus     float64 `json:"comfort_bonus"`
	SerendipityBonus float64 `json:"serendipity_bonus"`
	TotalMatchScore  float64 `json:"total_match_score"`
	MeetsThreshold   bool    `json:"meets_threshold"`
}

// DaylightSession es el registro de una corrida de matching por rasgos.
type DaylightSession struct {
	ID                string     `json:"id"`
	SessionName       string     `json:"session_name"`
	CreatedBy         string     `json:"created_by"`
	MinGroupSize      int        `json:"min_group_size"`
	MaxGroupSize      int        `json:"max_group_size"`
	MinMatchThreshold float64    `json:"min_match_threshold"`
	Status            string     `json:"status"`
	TotalParticipants int        `json:"total_participants"`
	TotalTables       int        `json:"total_tables"`
	AverageMatchScore *float64   `json:"average_match_score,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

// DaylightParticipant vincula un usuario y su test a una sesión.
type DaylightParticipant struct {
	ID                string    `json:"id"`
	SessionID         string    `json:"session_id"`
	UserID            string    `json:"user_id"`
	PersonalityTestID string    `json:"personality_test_id"`
	AddedAt           time.Time `json:"added_at"`
}

// TableMember es el snapshot de un miembro al momento de formar la mesa.
type TableMember struct {
	UserID          string  `json:"user_id"`
	Username        string  `json:"username"`
	FullName        string  `json:"full_name"`
	Archetype       string  `json:"archetype"`
	ArchetypeSymbol string  `json:"archetype_symbol"`
	ProfileScore    float64 `json:"profile_score"`
}

// DaylightTable es una mesa formada dentro de una sesión. Inmutable una vez
// creada: nunca se edita la composición después de persistirla.
type DaylightTable struct {
	ID                string        `json:"id"`
	SessionID         string        `json:"session_id"`
	TableNumber       int           `json:"table_number"`
	TableSize         int           `json:"table_size"`
	AverageMatchScore float64       `json:"average_match_score"`
	Members           []TableMember `json:"members"`
	CreatedAt         time.Time     `json:"created_at"`
}

// TablePairScore persiste el desglose de un par dentro de una mesa.
type TablePairScore struct {
	ID        string    `json:"id"`
	TableID   string    `json:"table_id"`
	User1ID   string    `json:"user1_id"`
	User2ID   string    `json:"user2_id"`
	Score     PairScore `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// PairScoreDetail enriquece un TablePairScore con nombres para lectura.
type PairScoreDetail struct {
	User1ID   string    `json:"user1_id"`
	User1Name string    `json:"user1_name"`
	User2ID   string    `json:"user2_id"`
	User2Name string    `json:"user2_name"`
	Score     PairScore `json:"score"`
}

// TableResult es una mesa lista para renderizar, con desgloses por par.
type TableResult struct {
	TableNumber       int               `json:"table_number"`
	TableSize         int               `json:"table_size"`
	AverageMatchScore float64           `json:"average_match_score"`
	Members           []TableMember     `json:"members"`
	PairwiseScores    []PairScoreDetail `json:"pairwise_scores"`
}

// DaylightSessionResult es el read model completo de una sesión: metadatos,
// mesas con snapshots y desgloses, no emparejados y vistas derivadas.
type DaylightSessionResult struct {
	Session               DaylightSession `json:"session"`
	CreatorName           string          `json:"creator_name"`
	Tables                []TableResult   `json:"tables"`
	UnmatchedParticipants []TableMember   `json:"unmatched_participants"`
	SizeDistribution      map[int]int     `json:"size_distribution"`
	OptimalSizeUsed       int             `json:"optimal_size_used"`
}
