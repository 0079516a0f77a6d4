package terrain

// RestartIndex is the primitive-restart sentinel for a rows × cols grid:
// one past the last vertex index.
func RestartIndex(rows, cols int) uint32 {
	return uint32(rows * cols)
}

// StripIndexCount returns (rows-1) * (2*cols + 1).
func StripIndexCount(rows, cols int) int {
	return (rows - 1) * (2*cols + 1)
}

// BuildStripIndices returns one triangle strip per row pair, upper vertex
// before lower, each strip terminated by RestartIndex.
func BuildStripIndices(rows, cols int) []uint32 {
	restart := RestartIndex(rows, cols)
	indices := make([]uint32, 0, StripIndexCount(rows, cols))
	for i := 0; i < rows-1; i++ {
		for j := 0; j < cols; j++ {
			indices = append(indices,
				uint32((i+1)*cols+j),
				uint32(i*cols+j),
			)
		}
		indices = append(indices, restart)
	}
	return indices
}
