// Package tracker defines Trackers, which track and save data in an
// experiment
package tracker

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"

	"github.com/CKLiao0419/golf-q-learning/utils/fileutils"
	ts "github.com/CKLiao0419/golf-q-learning/timestep"
)

// Interface Tracker keeps track of experiment data and saves the data
// after the experiment has finished
type Tracker interface {
	Track(t ts.TimeStep)
	Save() error
}

// SaveData atomically saves data to filename so that it can later be
// read with LoadData
func SaveData(filename string, data []float64) error {
	err := fileutils.WriteAtomic(filename, func(w io.Writer) error {
		return gob.NewEncoder(w).Encode(data)
	})
	if err != nil {
		return fmt.Errorf("saveData: %w", err)
	}
	return nil
}

// LoadData loads and returns the data saved by a Tracker
func LoadData(filename string) ([]float64, error) {
	// Open file
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadData: could not open data file: %w", err)
	}
	defer file.Close()

	// Create the decoder and the variable to store the data in
	dec := gob.NewDecoder(file)
	var data []float64

	// Decode the data
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("loadData: could not decode data: %w", err)
	}

	return data, nil
}
