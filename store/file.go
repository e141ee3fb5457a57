// Package store persists episode traces produced by the experiment harness.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strconv"

	"github.com/rmohan/halite-rl-env/rl"
	"github.com/rmohan/halite-rl-env/util"
)

// FileSink appends traces to one jsonl file per experiment and run.
type FileSink struct {
	basePath string
}

var _ rl.TraceSink = &FileSink{}

func NewFileSink(basePath string) (*FileSink, error) {
	tracesPath := path.Join(basePath, "traces")
	if err := os.MkdirAll(tracesPath, os.ModePerm); err != nil {
		return nil, fmt.Errorf("creating traces folder: %w", err)
	}
	return &FileSink{basePath: tracesPath}, nil
}

func (f *FileSink) Append(experiment string, run int, t *rl.Trace) error {
	bs, err := json.Marshal(t)
	if err != nil {
		return err
	}
	file := path.Join(f.basePath, experiment+"_"+strconv.Itoa(run)+".jsonl")
	return util.AppendToFile(file, string(bs))
}

func (f *FileSink) Close() error {
	return nil
}
