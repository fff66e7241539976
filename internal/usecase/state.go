package usecase

import "fmt"

// Phase katalog holati
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State katalog operatsiyasi natijasi
type State struct {
	Phase  Phase
	Reason string // faqat PhaseError da
	Count  int    // ro'yxatdagi mahsulotlar soni
}

func (s State) String() string {
	if s.Phase == PhaseError {
		return fmt.Sprintf("error: %s (%d products)", s.Reason, s.Count)
	}
	return fmt.Sprintf("%s (%d products)", s.Phase, s.Count)
}

// OK xato emasligini tekshirish
func (s State) OK() bool {
	return s.Phase != PhaseError
}
