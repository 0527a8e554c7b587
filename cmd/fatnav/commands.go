package main

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aligator/fatnav"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// withSession opens the image for the duration of run.
func (a *app) withSession(run func(session *fatnav.Session) error) error {
	session, err := a.open()
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.WithError(err).Warn("could not close the image")
		}
	}()
	return run(session)
}

// enter changes into the directory part of p and returns the base name.
func enter(session *fatnav.Session, p string) (string, error) {
	dir, base := path.Split(filepath.ToSlash(p))
	if dir != "" {
		if err := session.Cd(dir); err != nil {
			return "", err
		}
	}
	return base, nil
}

func infoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the boot sector information",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.withSession(func(session *fatnav.Session) error {
				geo, err := session.Info()
				if err != nil {
					return err
				}

				fmt.Fprintf(a.out, "BPB_BytesPerSec: %d (0x%X)\n", geo.BytesPerSector, geo.BytesPerSector)
				fmt.Fprintf(a.out, "BPB_SecPerClus: %d (0x%X)\n", geo.SectorsPerCluster, geo.SectorsPerCluster)
				fmt.Fprintf(a.out, "BPB_RsvdSecCnt: %d (0x%X)\n", geo.ReservedSectorCount, geo.ReservedSectorCount)
				fmt.Fprintf(a.out, "BPB_NumFATs: %d (0x%X)\n", geo.NumFATs, geo.NumFATs)
				fmt.Fprintf(a.out, "BPB_FATSz32: %d (0x%X)\n", geo.SectorsPerFAT, geo.SectorsPerFAT)

				log.WithFields(log.Fields{
					"rootCluster": geo.RootCluster,
					"rootAddress": fmt.Sprintf("0x%X", geo.ClusterOffset(geo.RootCluster)),
					"oemName":     geo.OEMName,
					"volumeID":    fmt.Sprintf("%08X", geo.VolumeID),
				}).Debug("image details")
				return nil
			})
		},
	}
}

func volumeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "volume",
		Short: "Print the volume label",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.withSession(func(session *fatnav.Session) error {
				label, err := session.Volume()
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Volume name: '%s'\n", label)
				return nil
			})
		},
	}
}

func lsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ls [dir]",
		Short: "List a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.withSession(func(session *fatnav.Session) error {
				if len(args) == 1 {
					if err := session.Cd(args[0]); err != nil {
						return err
					}
				}

				entries, err := session.List()
				if err != nil {
					return err
				}
				for _, entry := range entries {
					fmt.Fprintln(a.out, entry.Name)
				}
				return nil
			})
		},
	}
}

func statCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stat <path>",
		Short: "Print the directory entry of a file or directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.withSession(func(session *fatnav.Session) error {
				name, err := enter(session, args[0])
				if err != nil {
					return err
				}

				info, err := session.Stat(name)
				if err != nil {
					return err
				}

				fmt.Fprintf(a.out, "Entered value: %s\n", info.Entered)
				fmt.Fprintf(a.out, "Directory entry raw label: %s\n", info.RawName)
				fmt.Fprintln(a.out, "Directory entry attributes:")
				for _, attr := range info.Attr.Names() {
					fmt.Fprintf(a.out, " - %s\n", attr)
				}
				fmt.Fprintf(a.out, "Starting cluster: %X\n", info.Cluster)
				fmt.Fprintf(a.out, "File size: %d (0x%X) bytes\n", info.Size, info.Size)
				if !info.ModTime.IsZero() {
					fmt.Fprintf(a.out, "Last write: %s\n", info.ModTime.Format("2006-01-02 15:04:05"))
				}
				return nil
			})
		},
	}
}

func readCmd(a *app) *cobra.Command {
	var hexOutput bool

	cmd := &cobra.Command{
		Use:   "read <path> <offset> <length>",
		Short: "Print a part of a file",
		Args:  cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			offset, err := strconv.ParseInt(args[1], 0, 64)
			if err != nil {
				return fmt.Errorf("invalid offset %q: %w", args[1], err)
			}
			length, err := strconv.ParseInt(args[2], 0, 64)
			if err != nil {
				return fmt.Errorf("invalid length %q: %w", args[2], err)
			}

			return a.withSession(func(session *fatnav.Session) error {
				name, err := enter(session, args[0])
				if err != nil {
					return err
				}

				data, err := session.Read(name, offset, length)
				if err != nil {
					return err
				}

				if hexOutput {
					var parts []string
					for _, b := range data {
						parts = append(parts, fmt.Sprintf("0x%02X", b))
					}
					fmt.Fprintln(a.out, strings.Join(parts, " "))
					return nil
				}

				_, err = a.out.Write(data)
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&hexOutput, "hex", false, "print the bytes as hex values")
	return cmd
}

func getCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <path> [dest]",
		Short: "Copy a file out of the image",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.withSession(func(session *fatnav.Session) error {
				name, err := enter(session, args[0])
				if err != nil {
					return err
				}

				dest := filepath.Join(a.cfg.OutputDir, name)
				if len(args) == 2 {
					dest = args[1]
				}

				if err := session.GetTo(name, dest); err != nil {
					return err
				}
				log.Infof("copied %s to %s", args[0], dest)
				return nil
			})
		},
	}
}

func treeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print all files of the image",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.withSession(func(session *fatnav.Session) error {
				fs, err := session.Fs()
				if err != nil {
					return err
				}

				return afero.Walk(fs, "/", func(p string, info os.FileInfo, err error) error {
					if err != nil {
						return err
					}
					if p == "/" {
						return nil
					}

					suffix := ""
					if info.IsDir() {
						suffix = "/"
					}
					depth := strings.Count(filepath.ToSlash(p), "/") - 1
					fmt.Fprintf(a.out, "%s%s%s\n", strings.Repeat("  ", depth), info.Name(), suffix)
					return nil
				})
			})
		},
	}
}
