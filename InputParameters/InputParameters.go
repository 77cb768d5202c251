package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file. ghodss/yaml converts the
// document to JSON first, so the json tags name the keys.
type InputParametersBP struct {
	Title    string     `json:"Title"`
	Problem  string     `json:"Problem"` // bp1 through bp6
	Order    int        `json:"Order"`
	QExtra   int        `json:"QExtra"`
	Ceed     string     `json:"Ceed"`  // /cpu/self, /cpu/self/ref/serial, /cpu/self/go[/N]
	Faces    [3]int     `json:"Faces"` // Box mesh elements per direction
	Lower    [3]float64 `json:"Lower"` // Box corners
	Upper    [3]float64 `json:"Upper"`
	Kershaw  float64    `json:"Kershaw"` // Warp parameter in (0,1], zero leaves the box alone
	RelTol   float64    `json:"RelTol"`
	MaxIters int        `json:"MaxIterations"`
}

// NewInputParametersBP returns the defaults: BP1 at order 3 with one extra
// point on a 3x3x3 unit box
func NewInputParametersBP() *InputParametersBP {
	return &InputParametersBP{
		Title:    "CEED benchmark problem",
		Problem:  "bp1",
		Order:    3,
		QExtra:   1,
		Ceed:     "/cpu/self",
		Faces:    [3]int{3, 3, 3},
		Upper:    [3]float64{1, 1, 1},
		RelTol:   1.e-10,
		MaxIters: 1000,
	}
}

// Parse overlays the document on the current values
func (ip *InputParametersBP) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParametersBP) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t\t= Problem\n", ip.Problem)
	fmt.Printf("[%d]\t\t\t\t= Polynomial Order\n", ip.Order)
	fmt.Printf("[%d]\t\t\t\t= Extra Quadrature Points\n", ip.QExtra)
	fmt.Printf("[%s]\t\t= Ceed Resource\n", ip.Ceed)
	fmt.Printf("%v\t\t\t= Box Faces\n", ip.Faces)
	fmt.Printf("%v - %v\t= Box Extent\n", ip.Lower, ip.Upper)
	if ip.Kershaw != 0 {
		fmt.Printf("%8.5f\t\t= Kershaw Epsilon\n", ip.Kershaw)
	}
	fmt.Printf("%8.2e\t\t= Relative Tolerance\n", ip.RelTol)
	fmt.Printf("[%d]\t\t\t\t= Max Iterations\n", ip.MaxIters)
}
