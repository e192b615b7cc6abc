package fasta

import (
	"bytes"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testFastaContent = ">gi|5524211|gb|AAD44166.1| cytochrome b [Elephas maximus maximus]\nLCLYTHIGRNIYYGSYLYSETWNTGIMLLLITMATAFMGYVLPWGQMSFWGATVITNLFSAIPYIGTNLV\nEWIWGGFSVDKATLNRFFAFHFILPFTMVALAGVHLTFLHETGSNNPLGLTSDSDKIPFHPYYTIKDFLG\nLLILILLLLLLALLSPDMLGDPDNHMPADPLNTPLHIKPEWYFLFAYAILRSVPNKLGGVLALFLSIVI\nLGLMPFLHTSKHRSMMLRPLSQALFWTLTMDLLTLTWIGSQPVEYPYTIIGQMASILYFSIILAFLPIA\nGXIENY\n"

// ExampleParse shows basic usage for Parse.
func ExampleParse() {
	fastas, _ := Parse(bytes.NewBufferString(testFastaContent))
	fmt.Println(fastas[0].Name)
	// Output: gi|5524211|gb|AAD44166.1| cytochrome b [Elephas maximus maximus]
}

// ExampleBuild shows basic usage for Build.
func ExampleBuild() {
	fastas, _ := Parse(bytes.NewBufferString(testFastaContent))
	built, _ := Build(fastas)
	firstLine := string(bytes.Split(built, []byte("\n"))[0])

	fmt.Println(firstLine)
	// Output: >gi|5524211|gb|AAD44166.1| cytochrome b [Elephas maximus maximus]
}

func TestReadWriteRoundTrip(t *testing.T) {
	fastas, err := Parse(bytes.NewBufferString(testFastaContent))
	assert.NoError(t, err)
	assert.Len(t, fastas, 1)

	path := t.TempDir() + "/roundtrip.fasta"
	assert.NoError(t, Write(fastas, path))

	readBack, err := Read(path)
	assert.NoError(t, err)
	assert.Equal(t, fastas[0].Name, readBack[0].Name)
	assert.Equal(t, fastas[0].Sequence, readBack[0].Sequence)
}

func TestRead_error(t *testing.T) {
	_, err := Read("/nonexistent/path/to/a/file.fasta")
	assert.Error(t, err)
}

func TestReadGz_error(t *testing.T) {
	_, err := ReadGz("/nonexistent/path/to/a/file.fasta.gz")
	assert.Error(t, err)
}

func TestReadConcurrent(t *testing.T) {
	path := t.TempDir() + "/concurrent.fasta"
	assert.NoError(t, os.WriteFile(path, []byte(testFastaContent), 0644))

	sequences := make(chan Fasta, 10)
	go ReadConcurrent(path, sequences)

	var name string
	for fasta := range sequences {
		name = fasta.Name
	}
	assert.Equal(t, "gi|5524211|gb|AAD44166.1| cytochrome b [Elephas maximus maximus]", name)
}

func TestWriteGraphSegments(t *testing.T) {
	var buf bytes.Buffer
	records := []GraphSegmentRecord{
		{Number: 1, Sequence: "ACGT"},
		{Number: 2, Sequence: "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAGGG"},
	}
	assert.NoError(t, WriteGraphSegments(&buf, records))

	out := buf.String()
	assert.Contains(t, out, ">1\nACGT\n")
	assert.Contains(t, out, ">2\n")
	// the 68-base second sequence must wrap at 60 columns, with the remainder on its own line
	assert.Contains(t, out, "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA\nAAAAAGGG\n")
}
