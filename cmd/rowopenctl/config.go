package main

import (
	"github.com/spf13/cobra"

	"github.com/memsim/rowopen"
	"github.com/memsim/rowopen/rowcoord"
)

// builderFromFlags assembles a rowopen.Builder from the persistent flags
// registered on the root command. It loads envFile into the process
// environment first, but every scheduler setting comes from the flags
// (their defaults or explicit values); no environment variable is read
// for any of them.
func builderFromFlags(cmd *cobra.Command) (rowopen.Builder, error) {
	envFile, err := cmd.Flags().GetString("envfile")
	if err != nil {
		return rowopen.Builder{}, err
	}
	loadEnv(envFile)

	capacity, err := cmd.Flags().GetInt("capacity")
	if err != nil {
		return rowopen.Builder{}, err
	}
	slack, err := cmd.Flags().GetUint64("slack")
	if err != nil {
		return rowopen.Builder{}, err
	}
	densityWeight, err := cmd.Flags().GetFloat64("density-weight")
	if err != nil {
		return rowopen.Builder{}, err
	}
	confWeight, err := cmd.Flags().GetFloat64("confidence-weight")
	if err != nil {
		return rowopen.Builder{}, err
	}
	maxConf, err := cmd.Flags().GetUint32("max-confidence")
	if err != nil {
		return rowopen.Builder{}, err
	}
	rowBufferSize, err := cmd.Flags().GetInt("row-buffer-size")
	if err != nil {
		return rowopen.Builder{}, err
	}

	builder := rowopen.MakeBuilder().
		WithCapacity(capacity).
		WithSlack(slack).
		WithDensityWeight(densityWeight).
		WithConfidenceWeight(confWeight).
		WithMaxConfidence(maxConf).
		WithRowBufferSize(rowBufferSize).
		WithAddressMapper(rowcoord.DefaultBitSliceMapper()).
		WithRowHistoryTracking(true)

	return builder, nil
}
