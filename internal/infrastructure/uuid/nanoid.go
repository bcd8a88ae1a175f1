package uuid

import gonanoid "github.com/matoous/go-nanoid"

// Generator entity ID generation
type Generator interface {
	Generate() (string, error)
}

// NanoIDGenerator Generator backed by NanoID
type NanoIDGenerator struct {
	Length int
}

var _ Generator = &NanoIDGenerator{}

// NewNanoIDGenerator create a NanoIDGenerator producing IDs of the
// given length
func NewNanoIDGenerator(length int) *NanoIDGenerator {
	if length < 1 {
		panic("length must be larger than 1")
	}
	return &NanoIDGenerator{Length: length}
}

// Generate produce one ID
func (ns *NanoIDGenerator) Generate() (string, error) {
	id, err := gonanoid.Nanoid(ns.Length)
	if err != nil {
		return "", err
	}
	return id, nil
}
