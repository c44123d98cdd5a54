package testutil

// SampleInputs holds one representative free-text input per calculator,
// keyed by registry name, in the shape a dashboard textarea submits.
var SampleInputs = map[string]string{
	"bom":      "Table,qty:2,Leg:4,Top:1\nChair,Leg:4,Seat:1",
	"forecast": "10,20,30,40,50",
	"jsm":      "A,4,2024-03-02\nB,2\nC,6,2024-03-01",
	"saw":      "X,10,5\nY,5,10",
	"basket":   "a,b,c\na,b",
	"profile":  "Ideal,4,3,5\nAnn,4,3,5\nBob,2,3,4",
	"markov":   "A,B,A,B",
}

// SampleWeights are the SAW weights matching SampleInputs["saw"]
const SampleWeights = "0.5,0.5"
