package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphplane/pkg/boundary"
	"github.com/matzehuels/graphplane/pkg/element"
	"github.com/matzehuels/graphplane/pkg/geom"
	"github.com/matzehuels/graphplane/pkg/scene"
	"github.com/matzehuels/graphplane/pkg/snap"
)

// Transform directions for the --to flag.
const (
	toPixel = "pixel"
	toGraph = "graph"
)

// transformCommand converts points between graph space and pixels.
func (c *CLI) transformCommand() *cobra.Command {
	var scenePath, to string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "transform x,y [x,y...]",
		Short: "Convert points between graph space and pixels",
		Long: `Convert points between graph space and viewport pixels.

Axes and viewport come from --scene when given, otherwise from the
configuration. Pixel y grows downwards.`,
		Example: `  graphplane transform 0,0 2.5,-1 --to pixel
  graphplane transform 400,300 --to graph --scene plane.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			axes, vp := c.cfg.Axes, c.cfg.Viewport
			if scenePath != "" {
				run, err := c.openScene(cmd, scenePath)
				if err != nil {
					return err
				}
				axes, vp = run.Doc.Axes, run.Doc.Viewport
			}

			var convert func(geom.Point) geom.Point
			switch to {
			case toPixel:
				convert = func(p geom.Point) geom.Point { return vp.ToPixel(p, axes) }
			case toGraph:
				convert = func(p geom.Point) geom.Point { return vp.ToGraph(p, axes) }
			default:
				return fmt.Errorf("invalid --to %q (must be %q or %q)", to, toPixel, toGraph)
			}

			out := make([]geom.Point, 0, len(args))
			for _, a := range args {
				p, err := parsePoint(a)
				if err != nil {
					return err
				}
				out = append(out, convert(p))
			}

			w := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(w, out)
			}
			for i, p := range out {
				printKeyValue(w, args[i], formatPoint(p.X, p.Y))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scenePath, "scene", "", "scene file supplying axes and viewport")
	cmd.Flags().StringVar(&to, "to", toPixel, "target space: pixel or graph")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// projectCommand finds the closest point on one element.
func (c *CLI) projectCommand() *cobra.Command {
	var at string
	var asJSON bool

	cmd := &cobra.Command{
		Use:               "project <scene> <element-id>",
		Short:             "Find the closest point on an element",
		Example:           `  graphplane project plane.json f --at=0,-4`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeElementID(),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePoint(at)
			if err != nil {
				return err
			}
			run, err := c.openScene(cmd, args[0])
			if err != nil {
				return err
			}
			res, found, err := run.Project(p, args[1])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				if !found {
					return writeJSON(w, nil)
				}
				return writeJSON(w, res)
			}
			if !found {
				printWarning(w, "%s has no closest point", args[1])
				return nil
			}
			printKeyValue(w, "point", formatPoint(res.Coord.X, res.Coord.Y))
			printKeyValue(w, "param", StyleNumber.Render(fmt.Sprintf("%.6g", res.Param)))
			printKeyValue(w, "distance", StyleNumber.Render(fmt.Sprintf("%.6g", res.Distance)))
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "query point x,y")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

// snapCommand previews the snap target for a pointer position.
func (c *CLI) snapCommand() *cobra.Command {
	var at string
	var exclude []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "snap <scene>",
		Short: "Preview the snap target for a pointer position",
		Long: `Preview the snap target for a pointer position.

Every line, curve and function is a candidate; the nearest one within its
kind's threshold wins. Thresholds come from the [snap] config section.`,
		Example: `  graphplane snap plane.json --at=1,0.1 --exclude l2`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePoint(at)
			if err != nil {
				return err
			}
			run, err := c.openScene(cmd, args[0])
			if err != nil {
				return err
			}
			target := run.Snap(p, exclude...)

			w := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(w, encodeTarget(target))
			}
			printTarget(w, target)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "pointer position x,y")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "element ids that are never targets")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

// dragCommand finishes a point drag.
func (c *CLI) dragCommand() *cobra.Command {
	var at, output string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "drag <scene> <point-id>",
		Short: "Release a dragged point, snapping it onto nearby elements",
		Long: `Release a dragged point at --at.

The point snaps onto the nearest qualifying line, curve or function and
follows it from then on. Otherwise it becomes a free point, on the grid
when the grid is shown. Use --output to write the updated scene.`,
		Example:           `  graphplane drag plane.json P --at=1,0.1 -o plane.json`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeElementID(element.KindPoint),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePoint(at)
			if err != nil {
				return err
			}
			run, err := c.openScene(cmd, args[0])
			if err != nil {
				return err
			}
			pt, target, err := run.DragPoint(args[1], p)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(w, encodeTarget(target)); err != nil {
					return err
				}
			} else {
				pos := run.Resolver().PointPosition(pt)
				printSuccess(w, "%s moved to %s", pt.ID, formatPoint(pos.X, pos.Y))
				printTarget(w, target)
			}
			return saveScene(cmd, run, output)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "release position x,y")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the updated scene (- for stdout)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the snap target as JSON")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

// boundaryCommand drops an area control point.
func (c *CLI) boundaryCommand() *cobra.Command {
	var at, output string
	var ignore []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "boundary <scene> <area-id>",
		Short: "Drop an area control point and resolve its boundaries",
		Long: `Drop an area's control point at --at and fill the region bounded by the
nearest functions, lines and axes.

--ignore excludes boundaries from this and every later resolution of the
area. Without --at the area is re-resolved at its current label.`,
		Example: `  graphplane boundary plane.json a --at=1,0.5
  graphplane boundary plane.json a --ignore f2 -o plane.json`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeElementID(element.KindArea),
		RunE: func(cmd *cobra.Command, args []string) error {
			if at == "" && len(ignore) == 0 {
				return fmt.Errorf("nothing to do: set --at or --ignore")
			}
			run, err := c.openScene(cmd, args[0])
			if err != nil {
				return err
			}
			prog := newProgress(loggerFromContext(cmd.Context()))

			id := args[1]
			var out boundary.Outcome
			for _, b := range ignore {
				if out, err = run.IgnoreBoundary(id, b); err != nil {
					return err
				}
			}
			if at != "" {
				p, err := parsePoint(at)
				if err != nil {
					return err
				}
				if out, err = run.DropArea(id, p); err != nil {
					return err
				}
			}
			prog.done("resolved area " + id)

			poly, err := run.AreaPolygon(id)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(w, boundaryJSON{
					Rule:       out.Rule,
					Changed:    out.Changed,
					Candidates: out.Candidates,
					Polygon:    poly,
				}); err != nil {
					return err
				}
				return saveScene(cmd, run, output)
			}

			var cands []string
			for _, cand := range out.Candidates {
				cands = append(cands, fmt.Sprintf("%s (%.3g)", cand.ID, cand.Distance))
			}
			if out.Changed {
				printSuccess(w, "%s filled by rule %s", id, StyleHighlight.Render(string(out.Rule)))
				printKeyValue(w, "boundaries", strings.Join(out.Area.BoundaryIDs, ", "))
			} else {
				printInfo(w, "%s: no boundary in reach, label moved", id)
			}
			if len(cands) > 0 {
				printDetail(w, "candidates: %s", strings.Join(cands, ", "))
			}
			printDetail(w, "%d vertices", len(poly))
			return saveScene(cmd, run, output)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "drop position x,y")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "boundary ids to exclude (axis:x and axis:y name the axes)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the updated scene (- for stdout)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// deleteCommand removes an element.
func (c *CLI) deleteCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:               "delete <scene> <element-id>",
		Short:             "Remove an element, freezing everything anchored to it",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeElementID(),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := c.openScene(cmd, args[0])
			if err != nil {
				return err
			}
			if err := run.Delete(args[1]); err != nil {
				return err
			}
			if output == "" {
				output = args[0]
			}
			if output != stdio {
				printSuccess(cmd.ErrOrStderr(), "deleted %s", args[1])
			}
			return saveScene(cmd, run, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the updated scene here instead of in place (- for stdout)")
	return cmd
}

// validateCommand checks a scene document.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scene>",
		Short: "Check a scene document",
		Long: `Check a scene document.

Structural errors (unknown types, duplicate ids, malformed anchors) fail the
command. References that do not resolve and expressions that do not compile
are reported as warnings: the engine tolerates them by falling back to the
origin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := c.openScene(cmd, args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			elems := run.Elements()

			warnings := 0
			for _, e := range elems.All() {
				for _, a := range element.Anchors(e) {
					if _, ok := run.Resolver().ResolveOK(a); !ok {
						printWarning(w, "%s %s: anchor %s does not resolve", e.ElementKind(), e.ElementID(), a)
						warnings++
					}
				}
			}
			for _, f := range elems.Functions() {
				if _, err := run.Resolver().BindFunction(f); err != nil {
					printError(w, "function %s: %v", f.ID, err)
					warnings++
				}
			}

			if run.Doc.Repaired {
				printWarning(w, "axes were invalid and have been reset")
				warnings++
			}
			printSuccess(w, "%s: %d elements", args[0], elems.Len())
			counts := map[element.Kind]int{}
			for _, e := range elems.All() {
				counts[e.ElementKind()]++
			}
			for _, k := range []element.Kind{element.KindPoint, element.KindLine, element.KindCurve,
				element.KindFunction, element.KindArea, element.KindText} {
				if counts[k] > 0 {
					printDetail(w, "%d %s", counts[k], k)
				}
			}
			if warnings > 0 {
				printDetail(w, "%d warnings", warnings)
			}
			return nil
		},
	}
}

// =============================================================================
// Helpers
// =============================================================================

// completeElementID completes the element-id argument with the ids of the
// scene named by the first argument, optionally limited to kinds.
func completeElementID(kinds ...element.Kind) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		switch len(args) {
		case 0:
			return nil, cobra.ShellCompDirectiveDefault
		case 1:
		default:
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		doc, err := scene.ReadFile(args[0])
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		var ids []string
		for _, e := range doc.Elements.All() {
			if len(kinds) > 0 && !slices.Contains(kinds, e.ElementKind()) {
				continue
			}
			if strings.HasPrefix(e.ElementID(), toComplete) {
				ids = append(ids, e.ElementID())
			}
		}
		return ids, cobra.ShellCompDirectiveNoFileComp
	}
}

// boundaryJSON is the printed form of a boundary resolution.
type boundaryJSON struct {
	Rule       boundary.Rule        `json:"rule"`
	Changed    bool                 `json:"changed"`
	Candidates []boundary.Candidate `json:"candidates"`
	Polygon    []geom.Point         `json:"polygon"`
}

// targetJSON is the printed form of a snap target.
type targetJSON struct {
	Kind      string        `json:"kind"`
	ElementID string        `json:"elementId"`
	Anchor    *scene.Anchor `json:"anchor"`
	Coord     geom.Point    `json:"coord"`
	Param     float64       `json:"param"`
	Distance  float64       `json:"distance"`
}

func encodeTarget(t *snap.Target) *targetJSON {
	if t == nil {
		return nil
	}
	return &targetJSON{
		Kind:      string(t.Kind),
		ElementID: t.ElementID,
		Anchor:    scene.EncodeAnchor(t.Anchor),
		Coord:     t.Result.Coord,
		Param:     t.Result.Param,
		Distance:  t.Result.Distance,
	}
}

func printTarget(w io.Writer, t *snap.Target) {
	if t == nil {
		printInfo(w, "no snap target")
		return
	}
	printKeyValue(w, "target", fmt.Sprintf("%s %s", t.Kind, StyleHighlight.Render(t.ElementID)))
	printKeyValue(w, "anchor", t.Anchor.String())
	printKeyValue(w, "point", formatPoint(t.Result.Coord.X, t.Result.Coord.Y))
	printKeyValue(w, "distance", StyleNumber.Render(fmt.Sprintf("%.4g", t.Result.Distance)))
}
