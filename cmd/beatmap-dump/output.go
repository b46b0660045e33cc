package main

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/simonhull/beatmap"
)

type bundleSummary struct {
	Origin        string       `yaml:"origin"`
	Location      string       `yaml:"location"`
	Key           string       `yaml:"key,omitempty"`
	InfoFile      string       `yaml:"info_file"`
	SchemaVersion string       `yaml:"schema_version"`
	SongName      string       `yaml:"song_name,omitempty"`
	SongFile      string       `yaml:"song_file"`
	CoverFile     string       `yaml:"cover_file,omitempty"`
	Duration      string       `yaml:"duration,omitempty"`
	Sets          []setSummary `yaml:"sets"`
	Warnings      []string     `yaml:"warnings,omitempty"`
}

type setSummary struct {
	Characteristic string              `yaml:"characteristic"`
	Difficulties   []difficultySummary `yaml:"difficulties"`
}

type difficultySummary struct {
	Name      string `yaml:"name"`
	Rank      uint32 `yaml:"rank"`
	File      string `yaml:"file"`
	Schema    string `yaml:"schema,omitempty"`
	Notes     *int   `yaml:"notes,omitempty"`
	Obstacles *int   `yaml:"obstacles,omitempty"`
	BPMEvents *int   `yaml:"bpm_changes,omitempty"`
}

type keySummary struct {
	Ref string `yaml:"ref"`
	Key string `yaml:"key"`
}

// summarize flattens b. With counts set, every resolved difficulty reports
// its schema and object counts.
func summarize(b *beatmap.Bundle, counts bool) bundleSummary {
	s := bundleSummary{
		Origin:        b.Origin.String(),
		Location:      b.Location,
		Key:           b.Key,
		InfoFile:      b.InfoFile,
		SchemaVersion: b.Info.SchemaVersion().String(),
		SongName:      songName(b.Info),
		SongFile:      b.Info.SongFile(),
		CoverFile:     b.Info.CoverFile(),
	}
	if b.DurationKnown {
		s.Duration = b.Duration.String()
	}

	for _, set := range b.Info.Sets() {
		ss := setSummary{Characteristic: string(set.Characteristic)}
		for _, ref := range set.Beatmaps {
			ds := difficultySummary{
				Name: string(ref.Difficulty),
				Rank: uint32(ref.Rank),
				File: ref.Filename,
			}
			if d, ok := b.Difficulties.Get(set.Characteristic, ref.Rank); ok && counts {
				notes, obstacles, bpm := len(d.NoteList()), len(d.ObstacleList()), len(d.BPMChangeList())
				ds.Schema = d.SchemaVersion().String()
				ds.Notes, ds.Obstacles, ds.BPMEvents = &notes, &obstacles, &bpm
			}
			ss.Difficulties = append(ss.Difficulties, ds)
		}
		s.Sets = append(s.Sets, ss)
	}

	for _, w := range b.Warnings {
		s.Warnings = append(s.Warnings, w.String())
	}
	return s
}

func songName(info beatmap.Info) string {
	switch v := info.(type) {
	case *beatmap.InfoV1:
		return v.SongName
	case *beatmap.InfoV2:
		return v.SongName
	}
	return ""
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func writeText(w io.Writer, v any) error {
	var sb strings.Builder
	switch v := v.(type) {
	case bundleSummary:
		fmt.Fprintf(&sb, "Location: %s (%s)\n", v.Location, v.Origin)
		if v.Key != "" {
			fmt.Fprintf(&sb, "Key:      %s\n", v.Key)
		}
		fmt.Fprintf(&sb, "Info:     %s (schema %s)\n", v.InfoFile, v.SchemaVersion)
		if v.SongName != "" {
			fmt.Fprintf(&sb, "Song:     %s\n", v.SongName)
		}
		fmt.Fprintf(&sb, "Audio:    %s\n", v.SongFile)
		if v.Duration != "" {
			fmt.Fprintf(&sb, "Duration: %s\n", v.Duration)
		}
		for _, set := range v.Sets {
			fmt.Fprintf(&sb, "\n%s\n", set.Characteristic)
			for _, d := range set.Difficulties {
				fmt.Fprintf(&sb, "  %-10s rank %-2d %s", d.Name, d.Rank, d.File)
				if d.Notes != nil {
					fmt.Fprintf(&sb, "  schema %s, %d notes, %d obstacles, %d bpm changes",
						d.Schema, *d.Notes, *d.Obstacles, *d.BPMEvents)
				}
				sb.WriteByte('\n')
			}
		}
		if len(v.Warnings) > 0 {
			sb.WriteString("\nWarnings:\n")
			for _, msg := range v.Warnings {
				fmt.Fprintf(&sb, "  - %s\n", msg)
			}
		}
	case keySummary:
		sb.WriteString(v.Key + "\n")
	case beatmap.VersionInfo:
		fmt.Fprintf(&sb, "beatmap-dump %s\n", v.Version)
		fmt.Fprintf(&sb, "  commit:  %s\n", v.GitCommit)
		fmt.Fprintf(&sb, "  built:   %s\n", v.BuildTime)
		fmt.Fprintf(&sb, "  go:      %s\n", v.GoVersion)
		fmt.Fprintf(&sb, "  schemas: %v\n", v.SchemaMajors)
	default:
		return writeYAML(w, v)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
