package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML case file
type CaseParameters struct {
	Title             string       `yaml:"Title"`
	Width             float64      `yaml:"Width"`
	Height            float64      `yaml:"Height"`
	Material          MaterialSpec `yaml:"Material"`
	Cutouts           []CutoutSpec `yaml:"Cutouts"`
	ElementsPerSide   int          `yaml:"ElementsPerSide"`
	ElementsPerCutout int          `yaml:"ElementsPerCutout"`
	AppliedTension    float64      `yaml:"AppliedTension"` // +x tension on the left/right edges
	EvalPoints        [][2]float64 `yaml:"EvalPoints"`
}

type MaterialSpec struct {
	E1        float64 `yaml:"E1"`
	E2        float64 `yaml:"E2"`
	Nu12      float64 `yaml:"Nu12"`
	G12       float64 `yaml:"G12"`
	Thickness float64 `yaml:"Thickness"`
}

type CutoutSpec struct {
	CX float64 `yaml:"CX"`
	CY float64 `yaml:"CY"`
	R  float64 `yaml:"R"`
}

func (cp *CaseParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, cp)
}

func (cp *CaseParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", cp.Title)
	fmt.Printf("%8.3f x %.3f\t= Panel [W x H]\n", cp.Width, cp.Height)
	fmt.Printf("%8.5g\t\t= E1\n", cp.Material.E1)
	fmt.Printf("%8.5g\t\t= E2\n", cp.Material.E2)
	fmt.Printf("%8.5f\t\t= Nu12\n", cp.Material.Nu12)
	fmt.Printf("%8.5g\t\t= G12\n", cp.Material.G12)
	fmt.Printf("%8.4f\t\t= Thickness\n", cp.Material.Thickness)
	fmt.Printf("[%d / %d]\t\t= Elements per side / per cutout\n",
		cp.ElementsPerSide, cp.ElementsPerCutout)
	fmt.Printf("%8.2f\t\t= Applied tension\n", cp.AppliedTension)
	for i, c := range cp.Cutouts {
		fmt.Printf("Cutout[%d] = circle at (%g, %g), R = %g\n", i, c.CX, c.CY, c.R)
	}
	for i, p := range cp.EvalPoints {
		fmt.Printf("EvalPoint[%d] = (%g, %g)\n", i, p[0], p[1])
	}
}
