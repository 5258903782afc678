package service

import "sosy-match/internal/domain"

// QuestionnaireResult contiene los puntajes derivados de las respuestas del
// test Daylight, listos para volcar en un domain.PersonalityTest.
type QuestionnaireResult struct {
	ERaw float64
	ORaw float64
	SRaw float64
	ARaw float64
	CRaw float64
	LRaw int

	ENormalized float64
	ONormalized float64
	SNormalized float64
	ANormalized float64
	CNormalized float64
	LNormalized float64

	ProfileScore    float64
	Archetype       string
	ArchetypeSymbol string

	RelationshipStatus string
	LookingFor         string
	GenderComfort      string
}

// ScoreAnswers convierte el mapa de respuestas q1..q15 en puntajes crudos y
// normalizados. Las preguntas 6 y 7 son contexto y no puntuan.
func ScoreAnswers(answers domain.Answers) QuestionnaireResult {
	var e, o, s, a, c float64
	l := 1

	// Q1: conocer gente nueva -> E
	switch answers["q1"] {
	case "A":
		e += 10
	case "B":
		e -= 10
	}

	// Q2: como recarga energía -> E
	switch answers["q2"] {
	case "A":
		e += 10
	case "B":
		e -= 10
	}

	// Q3: tipo de conversación -> O (liviana = práctico, profunda = abstracto)
	switch answers["q3"] {
	case "A":
		o -= 10
	case "B":
		o += 10
	}

	// Q4: cambios de planes -> S (flexible vs estructurado)
	switch answers["q4"] {
	case "A":
		s += 10
	case "B":
		s -= 10
	}

	// Q5: reacción ante el problema de un amigo -> A (sentir vs pensar)
	switch answers["q5"] {
	case "A":
		a += 10
	case "B":
		a -= 10
	}

	// Q8: confort de genero -> C
	switch answers["q8"] {
	case "A":
		c += 10
	case "B":
		c += 2
	case "C":
		c += 6
	}

	// Q9: gasto en el lugar -> L
	switch answers["q9"] {
	case "A":
		l = 1
	case "B":
		l = 2
	case "C":
		l = 3
	}

	// Q10: actividad de fin de semana -> E, O
	switch answers["q10"] {
	case "A": // lectura / journaling
		e -= 5
		o += 5
	case "B": // aire libre
		e += 5
		o += 5
	case "C": // cafe / arte
		e += 3
		o += 5
	case "D": // entrenamiento
		o -= 2
	}

	// Q11: musica -> O
	switch answers["q11"] {
	case "A", "C": // jazz/lofi, indie
		o += 6
	case "B": // pop/R&B
		o += 2
	case "D": // EDM
		o -= 2
	}

	// Q12: genero de peliculas -> A
	switch answers["q12"] {
	case "A": // romance/drama
		a += 6
	case "B": // comedia
		a += 2
	case "C": // thriller
		a -= 2
	case "D": // documental
		a -= 6
	}

	// Q13: conocer extranos -> C
	switch answers["q13"] {
	case "A": // entusiasmo
		c += 10
	case "B": // nervios pero se anima
		c += 5
	case "C": // prefiere grupos chicos
		c += 2
	}

	// Q14: estilo de comunicación -> E
	switch answers["q14"] {
	case "A": // conversador
		e += 8
	case "B": // balanceado
		e += 4
	case "C": // reservado
		e -= 8
	}

	// Q15: conexion ideal -> A, O
	switch answers["q15"] {
	case "A": // jugueton
		a += 3
		o -= 2
	case "B": // profundo
		a += 8
		o += 6
	case "C": // inspirador
		a += 4
		o += 8
	case "D": // calmo
		a += 6
		o += 2
	}

	e = clamp(e, -10, 10)
	o = clamp(o, -10, 10)
	s = clamp(s, -10, 10)
	a = clamp(a, -10, 10)
	c = clamp(c, 0, 20)

	result := QuestionnaireResult{
		ERaw: e,
		ORaw: o,
		SRaw: s,
		ARaw: a,
		CRaw: c,
		LRaw: l,

		ENormalized: ((e + 10) / 20) * 100,
		ONormalized: ((o + 10) / 20) * 100,
		SNormalized: ((s + 10) / 20) * 100,
		ANormalized: ((a + 10) / 20) * 100,
		CNormalized: (c / 20) * 100,
		LNormalized: (float64(l-1) / 2) * 100,

		RelationshipStatus: answers["q6"],
		LookingFor:         answers["q7"],
		GenderComfort:      answers["q8"],
	}

	profileScore := 0.25*result.ENormalized +
		0.20*result.ONormalized +
		0.15*result.SNormalized +
		0.15*result.ANormalized +
		0.10*result.LNormalized +
		0.10*result.CNormalized
	result.ProfileScore = clamp(profileScore, 0, 100)

	result.Archetype, result.ArchetypeSymbol = determineArchetype(e, o, s, a)
	return result
}

// determineArchetype asigna la etiqueta de arquetipo según umbrales sobre los
// rasgos crudos. Las reglas se evaluan en orden y gana la primera que matchea.
func determineArchetype(e, o, s, a float64) (string, string) {
	eHi := e >= 5
	eLo := e <= -5
	oHi := o >= 5
	oLo := o <= -5
	sFlex := s >= 5
	sStruct := s <= -5
	aFeel := a >= 5
	aThink := a <= -5

	switch {
	case eHi && aFeel && (oHi || sFlex):
		return "Bright Morning", "☀️"
	case eLo && aFeel && (sStruct || oHi):
		return "Calm Dawn", "🟫"
	case eHi && aThink && sStruct:
		return "Bold Noon", "☀️"
	case eHi && aFeel && oHi && sFlex:
		return "Golden Hour", "🎇"
	case eLo && aThink && (oHi || sStruct):
		return "Quiet Dusk", "🌙"
	case eLo && aFeel && oHi && sFlex:
		return "Cloudy Day", "☁️"
	case aFeel && sStruct && (eLo || abs(e) < 5):
		return "Serene Drizzle", "🌧️"
	case eHi && aThink && (oLo || sStruct):
		return "Blazing Noon", "🔥"
	case eLo && oHi && (aThink || abs(a) < 5):
		return "Starry Night", "⭐"
	default:
		return "Perfect Day", "🌈"
	}
}

// ArchetypeDescriptions mapea cada arquetipo a su copy de presentación.
var ArchetypeDescriptions = map[string]string{
	"Bright Morning": "You bring fresh energy wherever you go. The kind of person who starts the conversation — and the laughter.",
	"Calm Dawn":      "You move at your own rhythm. People feel comfortable around you — grounded, kind, quietly confident.",
	"Bold Noon":      "The go-getter of every table. You lead naturally, keep things on track, and turn ideas into plans.",
	"Golden Hour":    "You light up rooms with your stories and laughter. Effortlessly social, you make everyone feel seen.",
	"Quiet Dusk":     "You're the thinker who listens before you speak — insightful, calm, and full of perspective.",
	"Cloudy Day":     "You see beauty in small moments. Often reserved, but when you open up, your words hit deep.",
	"Serene Drizzle": "You don't chase attention — you create peace. You're the steady soul who listens and understands.",
	"Blazing Noon":   "You bring heat and direction. When others hesitate, you move — pure action and confidence.",
	"Starry Night":   "You live in ideas and imagination. You connect through stories, purpose, and shared curiosity.",
	"Perfect Day":    "You flow between energies with grace — social when needed, quiet when it counts. You're harmony itself.",
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
