package sandbox

// Command is a typed host intrinsic; the bridge matches on it explicitly
type Command uint8

const (
	CommandMoveTo Command = iota + 1
	CommandDrive
	CommandCannon
	CommandScan
	CommandLocX
	CommandLocY
	CommandSpeed
	CommandHeading
	CommandDamage
)

// Intrinsic describes one host function exposed to guests
// Every parameter and result is a 32-bit integer
type Intrinsic struct {
	Name    string
	Command Command
	Params  int
	Results int
}

// Intrinsics is the complete capability surface, in import module ImportModule
var Intrinsics = []Intrinsic{
	{Name: "go", Command: CommandMoveTo, Params: 2},
	{Name: "drive", Command: CommandDrive, Params: 2},
	{Name: "cannon", Command: CommandCannon, Params: 2, Results: 1},
	{Name: "scan", Command: CommandScan, Params: 2, Results: 1},
	{Name: "loc_x", Command: CommandLocX, Results: 1},
	{Name: "loc_y", Command: CommandLocY, Results: 1},
	{Name: "speed", Command: CommandSpeed, Results: 1},
	{Name: "heading", Command: CommandHeading, Results: 1},
	{Name: "damage", Command: CommandDamage, Results: 1},
}

var (
	byName    = make(map[string]Intrinsic, len(Intrinsics))
	byCommand = make(map[Command]Intrinsic, len(Intrinsics))
)

func init() {
	for _, in := range Intrinsics {
		byName[in.Name] = in
		byCommand[in.Command] = in
	}
}

// LookupName resolves an import name to its intrinsic
func LookupName(name string) (Intrinsic, bool) {
	in, ok := byName[name]
	return in, ok
}

// LookupCommand resolves a command to its intrinsic
func LookupCommand(c Command) (Intrinsic, bool) {
	in, ok := byCommand[c]
	return in, ok
}

// String returns the guest-visible intrinsic name
func (c Command) String() string {
	if in, ok := byCommand[c]; ok {
		return in.Name
	}
	return "unknown"
}
