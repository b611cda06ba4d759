package token

import gotoken "go/token"

// toScannerPosition builds the go/token.Position go/scanner.Error expects,
// reusing the standard library's own position type purely as a formatting
// vehicle (see errors.go).
func toScannerPosition(file string, line, col int) gotoken.Position {
	return gotoken.Position{Filename: file, Line: line, Column: col}
}
