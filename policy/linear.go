// Package policy provides linear, feature-based move evaluation: a weight
// vector over a feature set producing move logits and softmax
// distributions.
package policy

type LinearFunction struct {
	weights        []float64
	featureSetName string
}

func NewLinearFunction(weights []float64, featureSetName string) *LinearFunction {
	return &LinearFunction{weights: weights, featureSetName: featureSetName}
}

func (l *LinearFunction) Weights() []float64 { return l.weights }

// FeatureSetName names the feature set this function was trained against.
func (l *LinearFunction) FeatureSetName() string { return l.featureSetName }

// Predict returns the dot product of the weights with a sparse binary
// feature vector given as active indices. Indices beyond the weight vector
// score zero, so a function trained against a smaller feature set can still
// be applied after expansion.
func (l *LinearFunction) Predict(active []int) float64 {
	sum := 0.0
	for _, i := range active {
		if i < len(l.weights) {
			sum += l.weights[i]
		}
	}
	return sum
}

// Update applies one gradient-descent step to the weights of the active
// features. This is the only mutation a LinearFunction supports.
func (l *LinearFunction) Update(active []int, gradient, learningRate float64) {
	for _, i := range active {
		if i < len(l.weights) {
			l.weights[i] += learningRate * gradient
		}
	}
}

// Extended returns a copy of the function padded with zero weights to cover
// a feature set of the given size.
func (l *LinearFunction) Extended(size int, featureSetName string) *LinearFunction {
	weights := make([]float64, size)
	copy(weights, l.weights)
	return &LinearFunction{weights: weights, featureSetName: featureSetName}
}
