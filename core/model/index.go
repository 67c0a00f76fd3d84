package model

// VarIndex returns the flat position of x[s,j], the quantity of component j
// used in product s, among n components. The formulation and every decoder
// rely on this ordering.
func VarIndex(s, j, n int) int { return s*n + j }

// VarPair is the inverse of VarIndex.
func VarPair(idx, n int) (s, j int) { return idx / n, idx % n }
