package pool

import "fmt"

// Type is the event type.
type Type string

const (
	TypeDraft  Type = "draft"
	TypeSealed Type = "sealed"
)

// Mode selects the assembler.
type Mode string

const (
	ModeNormal   Mode = "normal"
	ModeCube     Mode = "cube"
	ModeChaos    Mode = "chaos"
	ModeSlot     Mode = "slot"
	ModeDecadent Mode = "decadent"
)

// Request is the mode-independent configuration accepted by Generate.
// Fields a mode does not use are ignored.
type Request struct {
	Type        Type     `json:"type"`
	Mode        Mode     `json:"mode"`
	Players     int      `json:"players"`
	Sets        []string `json:"sets,omitempty"`
	CubeList    []string `json:"cubeList,omitempty"`
	PacksNumber int      `json:"packsNumber,omitempty"`
	PackSize    int      `json:"packSize,omitempty"`
	ModernOnly  bool     `json:"modernOnly,omitempty"`
	TotalChaos  bool     `json:"totalChaos,omitempty"`
}

// Generate dispatches a request to the matching mode.
func (e *Engine) Generate(req Request) (Pool, error) {
	switch req.Type {
	case TypeDraft:
		switch req.Mode {
		case ModeNormal:
			return e.DraftNormal(NormalConfig{Sets: req.Sets, Players: req.Players})
		case ModeCube:
			return e.DraftCube(CubeConfig{
				CubeList:    req.CubeList,
				Players:     req.Players,
				PacksNumber: req.PacksNumber,
				PackSize:    req.PackSize,
			})
		case ModeChaos:
			return e.DraftChaos(ChaosConfig{
				Players:     req.Players,
				PacksNumber: req.PacksNumber,
				ModernOnly:  req.ModernOnly,
				TotalChaos:  req.TotalChaos,
			})
		case ModeSlot:
			return e.SlotDraft(SlotConfig{Sets: req.Sets, Players: req.Players, PacksNumber: req.PacksNumber})
		case ModeDecadent:
			var set string
			if len(req.Sets) > 0 {
				set = req.Sets[0]
			}
			return e.DecadentDraft(DecadentConfig{Set: set, Players: req.Players, PacksNumber: req.PacksNumber})
		}
	case TypeSealed:
		switch req.Mode {
		case ModeNormal:
			return e.SealedNormal(NormalConfig{Sets: req.Sets, Players: req.Players})
		case ModeCube:
			return e.SealedCube(CubeConfig{CubeList: req.CubeList, Players: req.Players, PackSize: req.PackSize})
		case ModeChaos:
			return e.SealedChaos(ChaosConfig{
				Players:     req.Players,
				PacksNumber: req.PacksNumber,
				ModernOnly:  req.ModernOnly,
				TotalChaos:  req.TotalChaos,
			})
		case ModeSlot:
			return e.SlotSealed(SlotConfig{Sets: req.Sets, Players: req.Players, PacksNumber: req.PacksNumber})
		}
	}
	return nil, fmt.Errorf("%w: unsupported %s %s", ErrInvalidRequest, req.Mode, req.Type)
}
