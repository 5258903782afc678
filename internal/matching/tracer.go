package matching

import "go.uber.org/zap"

// Tracer recibe el progreso del motor de formación. Reemplaza la narración
// por salida estandar del sistema original con eventos estructurados.
type Tracer interface {
	TierStarted(tier Tier, remaining int)
	TierFinished(tier Tier, groupsFormed, remaining int)
	RunFinished(totalGroups, matched, totalParticipants int)
}

// NopTracer descarta todos los eventos. Util en tests.
type NopTracer struct{}

func (NopTracer) TierStarted(Tier, int)       {}
func (NopTracer) TierFinished(Tier, int, int) {}
func (NopTracer) RunFinished(int, int, int)   {}

// ZapTracer emite los eventos del motor como logs estructurados.
type ZapTracer struct {
	logger *zap.Logger
}

func NewZapTracer(logger *zap.Logger) *ZapTracer {
	return &ZapTracer{logger: logger}
}

func (t *ZapTracer) TierStarted(tier Tier, remaining int) {
	t.logger.Info("tier started",
		zap.String("tier", tier.Name),
		zap.Float64("threshold", tier.Threshold),
		zap.Bool("any_positive", tier.AnyPositive),
		zap.Bool("force", tier.Force),
		zap.Int("remaining", remaining),
	)
}

func (t *ZapTracer) TierFinished(tier Tier, groupsFormed, remaining int) {
	t.logger.Info("tier finished",
		zap.String("tier", tier.Name),
		zap.Int("groups_formed", groupsFormed),
		zap.Int("remaining", remaining),
	)
}

func (t *ZapTracer) RunFinished(totalGroups, matched, totalParticipants int) {
	t.logger.Info("formation finished",
		zap.Int("total_groups", totalGroups),
		zap.Int("matched", matched),
		zap.Int("total_participants", totalParticipants),
	)
}
