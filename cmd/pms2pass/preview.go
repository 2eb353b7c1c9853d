package main

import (
	"context"
	"fmt"
	"strings"

	pms2pass "github.com/alnah/go-pms2pass"
	"github.com/alnah/go-pms2pass/internal/fileutil"
)

// defaultPreviewName is where the calibration sheet lands when -o is absent.
const defaultPreviewName = "layout_preview.pdf"

// runPreview renders the layout calibration sheet: panel frames, field
// anchors, and a placeholder QR drawn from the active layout on a blank
// page. Print it on top of a real pass blank to check the alignment.
func runPreview(ctx context.Context, flags *previewFlags, env *Environment) error {
	spec, err := loadRunLayout(flags.layout)
	if err != nil {
		return err
	}

	gen, err := pms2pass.NewGenerator(pms2pass.WithLayout(buildLayout(spec)))
	if err != nil {
		return err
	}

	pdf, err := gen.Preview(ctx)
	if err != nil {
		return err
	}

	outputPath := flags.output
	switch {
	case outputPath == "":
		outputPath = defaultPreviewName
	case !strings.HasSuffix(strings.ToLower(outputPath), ".pdf"):
		outputPath = outputPath + ".pdf"
	}

	if err := fileutil.WriteFileAtomic(outputPath, pdf, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWritePDF, err)
	}

	fmt.Fprintf(env.Stdout, "Created %s\n", outputPath)
	return nil
}
