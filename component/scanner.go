package component

// ScannerComponent holds the last requested scan cone (auxiliary state)
type ScannerComponent struct {
	Angle      int
	Resolution int
}
