package parameter

// Sandbox
const (
	// EntryPoint is the export a bot module must provide
	EntryPoint = "botinit"

	// ImportModule is the only module name bots may import from
	ImportModule = "env"

	// MemoryLimitPages caps guest linear memory (64 KiB pages, 16 MiB)
	MemoryLimitPages = 256
)

// LuaHookInstructions is the instruction interval between cancellation checks in Lua bots
const LuaHookInstructions = 1000
