package crossmath

// Tile is a draggable numbered piece. The roster is fixed for a session.
type Tile struct {
	ID    TileID `json:"id"`
	Face  string `json:"face"`
	Color Color  `json:"-"`
}

// DefaultRoster is the tile set the game ships with.
var DefaultRoster = []Tile{
	{ID: 0, Face: "3", Color: MustParseColor("#FF595E")},
	{ID: 1, Face: "8", Color: MustParseColor("#FFCA3A")},
	{ID: 2, Face: "5", Color: MustParseColor("#8AC926")},
	{ID: 3, Face: "7", Color: MustParseColor("#1982C4")},
	{ID: 4, Face: "3", Color: MustParseColor("#6A4C93")},
	{ID: 5, Face: "6", Color: MustParseColor("#FF006E")},
	{ID: 6, Face: "9", Color: MustParseColor("#FB5607")},
	{ID: 7, Face: "1", Color: MustParseColor("#00BBF9")},
	{ID: 8, Face: "3", Color: MustParseColor("#9B5DE5")},
	{ID: 9, Face: "12", Color: MustParseColor("#F15BB5")},
	{ID: 10, Face: "4", Color: MustParseColor("#00F5D4")},
}

// TrayConfig places tiles in the staging tray, row-major, Columns per row.
// Origin is the centre of the first tile.
type TrayConfig struct {
	Origin  Vec2
	Columns int
	PitchX  float64
	PitchY  float64
}

// StagingPositions returns the tray centre for each of n tiles.
func StagingPositions(n int, tray TrayConfig) []Vec2 {
	cols := tray.Columns
	if cols <= 0 {
		cols = 1
	}
	out := make([]Vec2, n)
	for i := range out {
		out[i] = Vec2{
			X: tray.Origin.X + float64(i%cols)*tray.PitchX,
			Y: tray.Origin.Y + float64(i/cols)*tray.PitchY,
		}
	}
	return out
}
