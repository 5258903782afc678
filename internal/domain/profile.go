package domain

import "time"

// Valores conocidos para los atributos categoricos del perfil.
const (
	SocialEnergyIntrovert = "introvert"
	SocialEnergyAmbivert  = "ambivert"
	SocialEnergyExtrovert = "extrovert"

	ConversationStyleDeep   = "deep"
	ConversationStyleCasual = "casual"

	GenderPreferenceSame  = "same"
	GenderPreferenceMixed = "mixed"
	GenderPreferenceOpen  = "open"
)

// UserProfile es el perfil de matching por atributos de un usuario de la
// tienda. Los campos vacios significan "sin preferencia declarada".
type UserProfile struct {
	ID     string `json:"id"`
	UserID int64  `json:"user_id"`

	SocialEnergy        string   `json:"social_energy,omitempty"`
	ConversationStyle   string   `json:"conversation_style,omitempty"`
	SocialGoal          string   `json:"social_goal,omitempty"`
	GroupSizePreference int      `json:"group_size_preference,omitempty"`
	Gender              string   `json:"gender,omitempty"`
	GenderPreference    string   `json:"gender_preference,omitempty"`
	ActivityTypes       []string `json:"activity_types,omitempty"`
	DiscussionTopics    []string `json:"discussion_topics,omitempty"`
	LifeStage           string   `json:"life_stage,omitempty"`
	CulturalBackground  string   `json:"cultural_background,omitempty"`
	PriceTier           string   `json:"price_tier,omitempty"`

	ReliabilityScore float64 `json:"reliability_score"`
	AttendanceRate   float64 `json:"attendance_rate"`

	Username    string `json:"username,omitempty"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfilePairScore es el desglose de los diez criterios para un par.
type ProfilePairScore struct {
	SocialEnergyScore      float64 `json:"social_energy_score"`
	ConversationStyleScore float64 `json:"conversation_style_score"`
	SocialGoalScore        float64 `json:"social_goal_score"`
	GroupSizeScore         float64 `json:"group_size_score"`
	GenderComfortScore     float64 `json:"gender_comfort_score"`
	InterestScore          float64 `json:"interest_score"`
	LifeContextScore       float64 `json:"life_context_score"`
	CulturalScore          float64 `json:"cultural_score"`
	FinancialScore         float64 `json:"financial_score"`
	ReliabilityScore       float64 `json:"reliability_score"`

	TotalMatchScore       float64 `json:"total_match_score"`
	MatchingCriteriaCount int     `json:"matching_criteria_count"`
}

// EventSession es una corrida de matching por atributos para un evento.
type EventSession struct {
	ID                string    `json:"id"`
	EventID           int64     `json:"event_id"`
	EventName         string    `json:"event_name,omitempty"`
	TargetGroupSize   int       `json:"target_group_size"`
	ConversationStyle string    `json:"conversation_style"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// GroupMember es el snapshot de un miembro al momento de formar el grupo.
type GroupMember struct {
	UserID       int64  `json:"user_id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	SocialEnergy string `json:"social_energy,omitempty"`
}

// EventGroup es un grupo formado dentro de una sesión de evento.
type EventGroup struct {
	ID                string        `json:"id"`
	SessionID         string        `json:"session_id"`
	GroupNumber       int           `json:"group_number"`
	GroupSize         int           `json:"group_size"`
	AverageMatchScore float64       `json:"average_match_score"`
	Members           []GroupMember `json:"members"`
	CreatedAt         time.Time     `json:"created_at"`
}

// GroupPairScore persiste el desglose de un par dentro de un grupo.
type GroupPairScore struct {
	ID        string           `json:"id"`
	GroupID   string           `json:"group_id"`
	User1ID   int64            `json:"user1_id"`
	User2ID   int64            `json:"user2_id"`
	Score     ProfilePairScore `json:"score"`
	CreatedAt time.Time        `json:"created_at"`
}

// BalanceReport es el resultado de la validación de balance de energía
// social de un grupo. La validación es consultiva: un grupo desbalanceado
// igual se acepta salvo que la sesión pida cumplimiento estricto.
type BalanceReport struct {
	Balanced bool           `json:"balanced"`
	Counts   map[string]int `json:"counts"`
}

// EventMatchingResult es el read model de una sesión de evento.
type EventMatchingResult struct {
	Session           EventSession  `json:"session"`
	Groups            []EventGroup  `json:"groups"`
	TotalUsers        int           `json:"total_users"`
	MatchedUsers      int           `json:"matched_users"`
	UnmatchedUsers    int           `json:"unmatched_users"`
	Unmatched         []GroupMember `json:"unmatched,omitempty"`
	AverageGroupScore float64       `json:"average_group_score"`
}

// EnergyFeedback es la devolución post-encuentro de un usuario sobre otro.
type EnergyFeedback struct {
	ID           string    `json:"id"`
	GroupID      string    `json:"group_id"`
	UserID       int64     `json:"user_id"`
	RatedUserID  int64     `json:"rated_user_id"`
	EnergyImpact string    `json:"energy_impact"` // energized, neutral, drained
	Rating       int       `json:"rating"`        // 1-5
	FeedbackText string    `json:"feedback_text,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
