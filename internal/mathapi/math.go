// Package mathapi exposes three pure numeric functions over HTTP and keeps
// an append-only usage log of every successful call.
package mathapi

import (
	"errors"
	"math"
	"math/big"
)

// ErrNegativeInput rejects operations undefined for negative input.
var ErrNegativeInput = errors.New("n must be a non-negative integer")

// Pow raises base to the given exponent.
func Pow(base, exponent float64) float64 {
	return math.Pow(base, exponent)
}

// Fibonacci returns the n-th Fibonacci number, with F(0)=0 and F(1)=1.
func Fibonacci(n int) (*big.Int, error) {
	if n < 0 {
		return nil, ErrNegativeInput
	}
	a, b := big.NewInt(0), big.NewInt(1)
	for i := 0; i < n; i++ {
		a.Add(a, b)
		a, b = b, a
	}
	return a, nil
}

// Factorial returns n!.
func Factorial(n int) (*big.Int, error) {
	if n < 0 {
		return nil, ErrNegativeInput
	}
	result := big.NewInt(1)
	for i := 2; i <= n; i++ {
		result.Mul(result, big.NewInt(int64(i)))
	}
	return result, nil
}
