package fasta_test

import (
	"bytes"
	"fmt"

	"github.com/TimothyStiles/polyasm/io/fasta"
)

// This example shows how to parse fasta-formatted data read from any io.Reader. The sequences
// can then be analyzed further with different software.
func Example_basic() {
	data := ">seq1\nACGTACGTACGT\n>seq2\nTTTTAAAACCCC\n"
	fastas, _ := fasta.Parse(bytes.NewBufferString(data))
	fmt.Println(fastas[1].Sequence)
	// Output: TTTTAAAACCCC
}
