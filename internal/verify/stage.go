package verify

// Onboarding stages, in order. Transitions only move forward; states past
// KYC completion belong to other services.
const (
	StageOnboarding   = "ON_BOARDING"
	StageSignedUp     = "SIGNED_UP"
	StageVerification = "VERIFICATION"
	StageKYCPending   = "KYC_PENDING"
)

var stageRank = map[string]int{
	StageOnboarding:   0,
	StageSignedUp:     1,
	StageVerification: 2,
	StageKYCPending:   3,
}

// AdvanceStage returns next if it is at or past current, otherwise current.
// An unknown current stage (e.g. a provider-assigned KYC status string) is
// terminal for this service and never moves back.
func AdvanceStage(current, next string) string {
	cr, cok := stageRank[current]
	nr, nok := stageRank[next]
	if !nok {
		return next // provider-assigned state, always forward
	}
	if !cok {
		return current
	}
	if nr < cr {
		return current
	}
	return next
}
