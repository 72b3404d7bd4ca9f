package identity

import "robocore-go/errcode"

// Board describes pin configuration that belongs to a PCB revision rather
// than to an individual unit.
type Board struct {
	Name           string
	EncoderPullUps []int
}

// Boards is the registry of supported board variants.
var Boards = map[string]Board{
	"robo_v1": {Name: "robo_v1"},
	// V2 dropped the external pull-ups on the quadrature encoder lines
	// (PTC10, PTC11, PTC16, PTC17).
	"robo_v2":      {Name: "robo_v2", EncoderPullUps: []int{10, 11, 16, 17}},
	"pico_default": {Name: "pico_default"},
}

// LookupBoard returns the named board variant.
func LookupBoard(name string) (Board, error) {
	b, ok := Boards[name]
	if !ok {
		return Board{}, &errcode.E{C: errcode.UnknownBoard, Op: "identity.board", Msg: name}
	}
	return b, nil
}
