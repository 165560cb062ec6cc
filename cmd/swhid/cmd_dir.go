package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/wintermute101/swhid/pkg/directory"
	"github.com/wintermute101/swhid/pkg/permissions"
)

func newDirCmd() *cobra.Command {
	var flags dirFlags

	cmd := &cobra.Command{
		Use:   "dir PATH",
		Short: "Compute the dir SWHID of a directory tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.walkOptions(args[0])
			if err != nil {
				return err
			}

			id, err := directory.Compute(args[0], opts)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), id.String())
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// dirFlags holds the permission-source flags shared by the dir and
// verify (directory form) subcommands.
type dirFlags struct {
	excludeSuffixes  []string
	followSymlinks   bool
	permSource       string
	permPolicy       string
	permManifestPath string
}

func (f *dirFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.excludeSuffixes, "exclude-suffix", nil, "omit regular files whose name ends with this suffix (repeatable)")
	cmd.Flags().BoolVar(&f.followSymlinks, "follow-symlinks", false, "probe through directory symlinks to detect cycles")
	cmd.Flags().StringVar(&f.permSource, "permissions-source", "auto", "executable-bit source: auto, fs, manifest, or heuristic")
	cmd.Flags().StringVar(&f.permPolicy, "permissions-policy", "best-effort", "unknown-executable-bit policy: strict or best-effort")
	cmd.Flags().StringVar(&f.permManifestPath, "permissions-manifest", "", "path to a permissions manifest (required when --permissions-source=manifest)")
}

// walkOptions builds the WalkOptions for a walk rooted at root. root is
// needed because a loaded manifest keys its entries on manifest-relative
// paths, while the walker calls ExecutableOf with root-joined paths.
func (f *dirFlags) walkOptions(root string) (directory.WalkOptions, error) {
	policy, err := parsePermissionPolicy(f.permPolicy)
	if err != nil {
		return directory.WalkOptions{}, err
	}

	source, err := resolvePermissionSource(root, f.permSource, f.permManifestPath)
	if err != nil {
		return directory.WalkOptions{}, err
	}

	suffixes := make([][]byte, len(f.excludeSuffixes))
	for i, s := range f.excludeSuffixes {
		suffixes[i] = []byte(s)
	}

	return directory.WalkOptions{
		FollowSymlinks:   f.followSymlinks,
		ExcludeSuffixes:  suffixes,
		Permissions:      source,
		PermissionPolicy: policy,
	}, nil
}

func parsePermissionPolicy(s string) (permissions.Policy, error) {
	switch s {
	case "strict":
		return permissions.Strict, nil
	case "best-effort", "":
		return permissions.BestEffort, nil
	default:
		return 0, fmt.Errorf("invalid --permissions-policy %q: want strict or best-effort", s)
	}
}

func resolvePermissionSource(root, kind, manifestPath string) (permissions.Source, error) {
	switch kind {
	case "auto", "":
		return permissions.NewAutoSource(), nil
	case "fs":
		return permissions.FilesystemSource{}, nil
	case "heuristic":
		return permissions.HeuristicSource{}, nil
	case "manifest":
		if manifestPath == "" {
			return nil, fmt.Errorf("--permissions-source=manifest requires --permissions-manifest")
		}
		src, err := permissions.LoadManifest(manifestPath)
		if err != nil {
			return nil, err
		}
		return rootRelativeManifestSource{root: root, src: src}, nil
	default:
		return nil, fmt.Errorf("invalid --permissions-source %q: want auto, fs, manifest, or heuristic", kind)
	}
}

// rootRelativeManifestSource adapts a permissions.ManifestSource, which
// keys its entries on manifest-relative paths (e.g. "bin/tool"), to the
// root-joined paths the directory walker passes to ExecutableOf (e.g.
// "myrepo/bin/tool"). Without this, a manifest source wired directly into
// the walker never matches any entry unless root is ".".
type rootRelativeManifestSource struct {
	root string
	src  *permissions.ManifestSource
}

func (s rootRelativeManifestSource) ExecutableOf(path string) (permissions.Exec, error) {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return permissions.UnknownExec, fmt.Errorf("permissions: relativize %s to %s: %w", path, s.root, err)
	}
	return s.src.ExecutableOf(rel)
}
