package domain

import (
	"time"

	pgvector "github.com/pgvector/pgvector-go"
)

// Answers es el mapa crudo de respuestas del cuestionario (q1..q15 -> opción).
type Answers map[string]string

// PersonalityTest guarda el resultado del test Daylight de un usuario.
// Los rasgos crudos van de -10 a +10 (E, O, S, A), el confort de 0 a 20 y el
// tier de estilo de vida es 1, 2 o 3. Los normalizados van de 0 a 100.
type PersonalityTest struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	ERaw float64 `json:"e_raw"` // Energía: extrovertido(+) a introvertido(-)
	ORaw float64 `json:"o_raw"` // Apertura: abstracto(+) a práctico(-)
	SRaw float64 `json:"s_raw"` // Estructura: flexible(+) a estructurado(-)
	ARaw float64 `json:"a_raw"` // Afecto: sentir(+) a pensar(-)
	CRaw float64 `json:"c_raw"` // Confort con desconocidos
	LRaw int     `json:"l_raw"` // Tier de estilo de vida

	ENormalized float64 `json:"e_normalized"`
	ONormalized float64 `json:"o_normalized"`
	SNormalized float64 `json:"s_normalized"`
	ANormalized float64 `json:"a_normalized"`
	CNormalized float64 `json:"c_normalized"`
	LNormalized float64 `json:"l_normalized"`

	ProfileScore    float64 `json:"profile_score"`
	Archetype       string  `json:"archetype"`
	ArchetypeSymbol string  `json:"archetype_symbol"`

	RelationshipStatus string `json:"relationship_status,omitempty"`
	LookingFor         string `json:"looking_for,omitempty"`
	GenderComfort      string `json:"gender_comfort,omitempty"`

	// TraitVec es el vector [E,O,S,A] crudo como pgvector, para busquedas de
	// perfiles cercanos en base de datos.
	TraitVec pgvector.Vector `json:"-"`

	Answers   Answers   `json:"answers"`
	TestDate  time.Time `json:"test_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TraitVector devuelve el vector de rasgos crudo [E, O, S, A].
func (t PersonalityTest) TraitVector() [4]float64 {
	return [4]float64{t.ERaw, t.ORaw, t.SRaw, t.ARaw}
}
