// Package render turns portfolio data and load state into text for the terminal or a file.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/nikogura/portfolio-client/pkg/loader"
	"github.com/nikogura/portfolio-client/pkg/portfolio"
)

// Headings shown for the non-ready load states.
const (
	LoadingTitle = "Loading portfolio..."
	ErrorTitle   = "Unable to Load Portfolio"
)

// Markdown renders the full portfolio as a markdown document. Skill categories are sorted so
// the output is stable.
func Markdown(data portfolio.PortfolioData) (content string) {
	var b strings.Builder

	p := data.Personal
	fmt.Fprintf(&b, "# %s\n\n", p.Name)
	if p.Title != "" {
		fmt.Fprintf(&b, "**%s**\n\n", p.Title)
	}
	if p.Subtitle != "" {
		fmt.Fprintf(&b, "%s\n\n", p.Subtitle)
	}

	contact := joinNonEmpty(" | ", p.Contact.Email, p.Contact.Phone, p.Contact.Location)
	if contact != "" {
		fmt.Fprintf(&b, "%s\n\n", contact)
	}

	if len(data.Stats) > 0 {
		for _, stat := range data.Stats {
			fmt.Fprintf(&b, "- **%s** %s\n", stat.Number, stat.Label)
		}
		b.WriteString("\n")
	}

	if data.About.Mission != "" || len(data.About.Highlights) > 0 {
		b.WriteString("## About\n\n")
		if data.About.Mission != "" {
			fmt.Fprintf(&b, "%s\n\n", data.About.Mission)
		}
		for _, h := range data.About.Highlights {
			fmt.Fprintf(&b, "- **%s**: %s\n", h.Title, h.Description)
		}
		if len(data.About.Highlights) > 0 {
			b.WriteString("\n")
		}
	}

	if len(data.Skills) > 0 {
		b.WriteString("## Skills\n\n")
		categories := make([]string, 0, len(data.Skills))
		for category := range data.Skills {
			categories = append(categories, category)
		}
		sort.Strings(categories)
		for _, category := range categories {
			fmt.Fprintf(&b, "- **%s**: %s\n", category, strings.Join(data.Skills[category], ", "))
		}
		b.WriteString("\n")
	}

	if len(data.Experience) > 0 {
		b.WriteString("## Experience\n\n")
		for _, exp := range data.Experience {
			fmt.Fprintf(&b, "### %s, %s\n\n", exp.Title, exp.Company)
			fmt.Fprintf(&b, "*%s*\n\n", joinNonEmpty(" | ", exp.Period, exp.Type))
			for _, achievement := range exp.Achievements {
				fmt.Fprintf(&b, "- %s\n", achievement)
			}
			if len(exp.Technologies) > 0 {
				fmt.Fprintf(&b, "\nTechnologies: %s\n", strings.Join(exp.Technologies, ", "))
			}
			b.WriteString("\n")
		}
	}

	if len(data.Projects) > 0 {
		b.WriteString("## Projects\n\n")
		for _, project := range data.Projects {
			fmt.Fprintf(&b, "### %s\n\n", strings.TrimSpace(project.Number+" "+project.Title))
			if project.Description != "" {
				fmt.Fprintf(&b, "%s\n\n", project.Description)
			}
			if project.Impact.Title != "" {
				fmt.Fprintf(&b, "**%s**\n\n", project.Impact.Title)
			}
			for _, metric := range project.Impact.Metrics {
				fmt.Fprintf(&b, "- %s\n", metric)
			}
			if len(project.Technologies) > 0 {
				fmt.Fprintf(&b, "\nTechnologies: %s\n", strings.Join(project.Technologies, ", "))
			}
			b.WriteString("\n")
		}
	}

	creds := data.Credentials
	if len(creds.Education) > 0 || len(creds.Certifications) > 0 {
		b.WriteString("## Credentials\n\n")
		for _, edu := range creds.Education {
			fmt.Fprintf(&b, "- %s, %s (%s)\n", strings.TrimSpace(edu.Degree+" "+edu.Field), edu.Institution, edu.Year)
		}
		for _, cert := range creds.Certifications {
			fmt.Fprintf(&b, "- %s, %s (%s)\n", cert.Name, cert.Issuer, cert.Year)
		}
		b.WriteString("\n")
	}

	content = strings.TrimRight(b.String(), "\n") + "\n"
	return content
}

// Text renders whatever the loader currently shows: a loading line, the error screen, or the
// portfolio.
func Text(state loader.LoadState) (content string) {
	switch state.Status {
	case loader.StatusReady:
		if state.Data != nil {
			content = Markdown(*state.Data)
			return content
		}
		content = LoadingTitle + "\n"
	case loader.StatusError:
		content = ErrorTitle + "\n" + state.Err + "\n"
	default:
		content = LoadingTitle + "\n"
	}
	return content
}

// WriteMarkdown writes markdown content to a file.
func WriteMarkdown(content, outputPath string) (err error) {
	outputDir := filepath.Dir(outputPath)
	err = os.MkdirAll(outputDir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", outputDir)
		return err
	}

	err = os.WriteFile(outputPath, []byte(content), 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write markdown file: %s", outputPath)
		return err
	}

	return err
}

func joinNonEmpty(sep string, parts ...string) (joined string) {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	joined = strings.Join(kept, sep)
	return joined
}
