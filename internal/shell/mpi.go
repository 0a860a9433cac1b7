package shell

import (
	"context"
	"fmt"
	"strings"

	"github.com/iowarp/jarvis/internal/ctxlog"
)

// MPIFlavor identifies the installed MPI implementation. The launcher flag
// spelling differs between the MPICH family and OpenMPI.
type MPIFlavor int

const (
	MPICH MPIFlavor = iota
	OpenMPI
	IntelMPI
	CrayMPICH
)

func (f MPIFlavor) String() string {
	switch f {
	case OpenMPI:
		return "openmpi"
	case IntelMPI:
		return "intel-mpi"
	case CrayMPICH:
		return "cray-mpich"
	default:
		return "mpich"
	}
}

// MpiCmd wraps a command into an MPI launch line for the given flavor.
// Ppn 0 and a pathless hostfile emit no extra flags, so a plain local run
// produces exactly `mpirun -n <nprocs> <cmd>`.
func MpiCmd(flavor MPIFlavor, cmd string, info ExecInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "mpirun -n %d", info.Nprocs)

	if info.Ppn > 0 {
		switch flavor {
		case OpenMPI:
			fmt.Fprintf(&b, " --npernode %d", info.Ppn)
		default:
			fmt.Fprintf(&b, " -ppn %d", info.Ppn)
		}
	}
	if path := info.Hostfile.Path(); path != "" {
		switch flavor {
		case OpenMPI:
			fmt.Fprintf(&b, " --hostfile %s", path)
		default:
			fmt.Fprintf(&b, " -f %s", path)
		}
	}

	b.WriteByte(' ')
	b.WriteString(cmd)
	return b.String()
}

// DetectMPI introspects `mpiexec --version` to classify the installed MPI
// implementation. Detection failures fall back to MPICH, matching the most
// common cluster install.
func DetectMPI(ctx context.Context) MPIFlavor {
	logger := ctxlog.FromContext(ctx)

	probe := ExecInfo{HideOutput: true, CollectOutput: true}
	res, err := Run(ctx, "mpiexec --version", probe)
	if err != nil {
		logger.Warn("Could not probe MPI implementation, assuming MPICH.", "error", err)
		return MPICH
	}

	flavor, ok := ClassifyMPI(res.Stdout)
	if !ok {
		logger.Warn("Unrecognized MPI implementation, assuming MPICH.", "version_output", res.Stdout)
	}
	logger.Debug("Detected MPI implementation.", "flavor", flavor.String())
	return flavor
}

// ClassifyMPI maps `mpiexec --version` output to an MPIFlavor. The second
// return is false when the output matched nothing and the default applied.
func ClassifyMPI(versionOutput string) (MPIFlavor, bool) {
	switch {
	case strings.Contains(strings.ToLower(versionOutput), "mpich"):
		return MPICH, true
	case strings.Contains(versionOutput, "Open MPI"), strings.Contains(versionOutput, "OpenRTE"):
		return OpenMPI, true
	case strings.Contains(versionOutput, "Intel(R) MPI Library"):
		return IntelMPI, true
	case strings.Contains(versionOutput, "mpiexec version"):
		return CrayMPICH, true
	default:
		return MPICH, false
	}
}
