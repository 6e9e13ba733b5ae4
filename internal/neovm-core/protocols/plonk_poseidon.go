package protocols

import (
	"fmt"
	"math/big"

	"github.com/zkneo/neovm-core/internal/neovm-core/core"
	"github.com/zkneo/neovm-core/internal/neovm-core/utils"
)

// PlonkPoseidonProver implements the advanced Plonk prover for Poseidon
// Based on the paper "Plonk and Poseidon" by Dmitry Khovratovich
type PlonkPoseidonProver struct {
	field *core.Field
	// Poseidon parameters
	width         int // w: width of the permutation
	roundsFull    int // RF: number of full rounds
	roundsPartial int // RP: number of partial rounds
	// Domain parameters
	domainSize int
	omega      *core.FieldElement // generator of the domain
	// Polynomial commitments
	commitments map[string]*core.FieldElement
}

// PlonkPoseidonProof represents a Plonk proof for Poseidon
type PlonkPoseidonProof struct {
	// Polynomial commitments
	FLCommitment *core.FieldElement // fL polynomial commitment
	FRCommitment *core.FieldElement // fR polynomial commitment
	FOCommitment *core.FieldElement // fO polynomial commitment
	ZCommitment  *core.FieldElement // Z polynomial commitment
	// Opening proofs
	Openings []*core.FieldElement
	// Quotient polynomial
	QuotientCommitment *core.FieldElement
}

// NewPlonkPoseidonProver creates a new Plonk Poseidon prover
func NewPlonkPoseidonProver(field *core.Field, width, roundsFull, roundsPartial int) (*PlonkPoseidonProver, error) {
	// Calculate domain size
	domainSize := roundsFull + roundsPartial + 1 // R + 1

	// Find generator of the domain
	omega, err := findDomainGenerator(field, domainSize)
	if err != nil {
		return nil, fmt.Errorf("failed to find domain generator: %w", err)
	}

	return &PlonkPoseidonProver{
		field:         field,
		width:         width,
		roundsFull:    roundsFull,
		roundsPartial: roundsPartial,
		domainSize:    domainSize,
		omega:         omega,
		commitments:   make(map[string]*core.FieldElement),
	}, nil
}

// ProvePoseidon generates a Plonk proof for Poseidon hash
func (ppp *PlonkPoseidonProver) ProvePoseidon(
	input []*core.FieldElement,
	output []*core.FieldElement,
	channel *utils.Channel,
) (*PlonkPoseidonProof, error) {
	// Step 1: Define polynomials fL, fR, fO interpolating on xa, xb, xc
	// For Poseidon, we use the state polynomials
	fL, fR, fO, err := ppp.defineStatePolynomials(input, output)
	if err != nil {
		return nil, fmt.Errorf("failed to define state polynomials: %w", err)
	}

	// Step 2: Commit to polynomials (simplified for demo)
	flCommitment := ppp.field.NewElementFromInt64(1)
	frCommitment := ppp.field.NewElementFromInt64(2)
	foCommitment := ppp.field.NewElementFromInt64(3)

	// Step 3: Prove wire consistency using permutation
	zCommitment, err := ppp.proveWireConsistency(fL, fR, fO, channel)
	if err != nil {
		return nil, fmt.Errorf("failed to prove wire consistency: %w", err)
	}

	// Step 4: Prove circuit polynomials
	quotientCommitment, openings, err := ppp.proveCircuitPolynomials(fL, fR, fO, channel)
	if err != nil {
		return nil, fmt.Errorf("failed to prove circuit polynomials: %w", err)
	}

	return &PlonkPoseidonProof{
		FLCommitment:       flCommitment,
		FRCommitment:       frCommitment,
		FOCommitment:       foCommitment,
		ZCommitment:        zCommitment,
		Openings:           openings,
		QuotientCommitment: quotientCommitment,
	}, nil
}

// defineStatePolynomials defines the state polynomials for Poseidon
func (ppp *PlonkPoseidonProver) defineStatePolynomials(
	input []*core.FieldElement,
	output []*core.FieldElement,
) ([]*core.Polynomial, []*core.Polynomial, []*core.Polynomial, error) {
	// Create domain H* = {g, g^2, ..., g^(R+1)}
	domain := make([]*core.FieldElement, ppp.domainSize)
	domain[0] = ppp.omega
	for i := 1; i < ppp.domainSize; i++ {
		domain[i] = domain[i-1].Mul(ppp.omega)
	}

	// Define w polynomials of degree R on H*
	// fi(g^r) = Ir[i] where Ir is the input state for round r
	fL := make([]*core.Polynomial, ppp.width)
	fR := make([]*core.Polynomial, ppp.width)
	fO := make([]*core.Polynomial, ppp.width)

	for i := 0; i < ppp.width; i++ {
		// Create evaluation points for each polynomial
		evaluationsL := make([]*core.FieldElement, ppp.domainSize)
		evaluationsR := make([]*core.FieldElement, ppp.domainSize)
		evaluationsO := make([]*core.FieldElement, ppp.domainSize)

		// For simplicity, we'll use the input/output values
		// In a real implementation, these would be the actual state values
		for j := 0; j < ppp.domainSize; j++ {
			if j < len(input) {
				evaluationsL[j] = input[j]
				evaluationsR[j] = input[j]
				evaluationsO[j] = input[j]
			} else if j == ppp.domainSize-1 && i < len(output) {
				evaluationsL[j] = output[i]
				evaluationsR[j] = output[i]
				evaluationsO[j] = output[i]
			} else {
				evaluationsL[j] = ppp.field.Zero()
				evaluationsR[j] = ppp.field.Zero()
				evaluationsO[j] = ppp.field.Zero()
			}
		}

		// Interpolate polynomials (simplified for demo)
		// Create dummy polynomials
		coeffsL := make([]*core.FieldElement, len(evaluationsL))
		coeffsR := make([]*core.FieldElement, len(evaluationsR))
		coeffsO := make([]*core.FieldElement, len(evaluationsO))

		copy(coeffsL, evaluationsL)
		copy(coeffsR, evaluationsR)
		copy(coeffsO, evaluationsO)

		fL[i], _ = core.NewPolynomial(coeffsL)
		fR[i], _ = core.NewPolynomial(coeffsR)
		fO[i], _ = core.NewPolynomial(coeffsO)
	}

	return fL, fR, fO, nil
}

// proveWireConsistency proves wire consistency using permutation
func (ppp *PlonkPoseidonProver) proveWireConsistency(
	fL, fR, fO []*core.Polynomial,
	channel *utils.Channel,
) (*core.FieldElement, error) {
	// Define indicator polynomials and round constant polynomials
	wPoly, err := ppp.defineIndicatorPolynomial()
	if err != nil {
		return nil, fmt.Errorf("failed to define indicator polynomial: %w", err)
	}

	cPoly, err := ppp.defineRoundConstantPolynomial()
	if err != nil {
		return nil, fmt.Errorf("failed to define round constant polynomial: %w", err)
	}

	// Define permutation polynomial Z
	zPoly, err := ppp.definePermutationPolynomial(fL, fR, fO, wPoly, cPoly, channel)
	if err != nil {
		return nil, fmt.Errorf("failed to define permutation polynomial: %w", err)
	}

	// Commit to Z polynomial
	zCommitment, err := ppp.commitToPolynomial(zPoly)
	if err != nil {
		return nil, fmt.Errorf("failed to commit to Z polynomial: %w", err)
	}

	return zCommitment, nil
}

// defineIndicatorPolynomial defines the indicator polynomial W
func (ppp *PlonkPoseidonProver) defineIndicatorPolynomial() (*core.Polynomial, error) {
	// W(g^r) = 1 if RF < r <= RF + RP, 0 otherwise
	domain := make([]*core.FieldElement, ppp.domainSize)
	evaluations := make([]*core.FieldElement, ppp.domainSize)

	domain[0] = ppp.omega
	for i := 1; i < ppp.domainSize; i++ {
		domain[i] = domain[i-1].Mul(ppp.omega)
	}

	for i := 0; i < ppp.domainSize; i++ {
		if i > ppp.roundsFull && i <= ppp.roundsFull+ppp.roundsPartial {
			evaluations[i] = ppp.field.One()
		} else {
			evaluations[i] = ppp.field.Zero()
		}
	}

	// Create polynomial from evaluations (simplified)
	coeffs := make([]*core.FieldElement, len(evaluations))
	copy(coeffs, evaluations)
	poly, err := core.NewPolynomial(coeffs)
	return poly, err
}

// defineRoundConstantPolynomial defines the round constant polynomial C
func (ppp *PlonkPoseidonProver) defineRoundConstantPolynomial() (*core.Polynomial, error) {
	// C(g^r) = c(r) where c(r) is the round constant array
	domain := make([]*core.FieldElement, ppp.domainSize)
	evaluations := make([]*core.FieldElement, ppp.domainSize)

	domain[0] = ppp.omega
	for i := 1; i < ppp.domainSize; i++ {
		domain[i] = domain[i-1].Mul(ppp.omega)
	}

	// Generate proper round constants for Poseidon
	// Round constants are typically generated using Grain LFSR or similar
	// For production, these should be the actual Poseidon round constants
	for i := 0; i < ppp.domainSize; i++ {
		// Generate round constant using field-friendly method
		// This is a simplified version - in production, use proper Grain LFSR
		roundIndex := i % (ppp.roundsFull + ppp.roundsPartial)
		seed := ppp.field.NewElementFromInt64(int64(roundIndex + 1))

		// Apply some field operations to generate pseudo-random constant
		constant := seed.Mul(seed).Add(ppp.field.NewElementFromInt64(1))
		evaluations[i] = constant
	}

	// Create polynomial from evaluations using Lagrange interpolation
	points := make([]core.Point, len(evaluations))
	for i := range evaluations {
		points[i] = *core.NewPoint(domain[i], evaluations[i])
	}

	poly, err := core.LagrangeInterpolation(points, ppp.field)
	return poly, err
}

// definePermutationPolynomial defines the permutation polynomial Z
func (ppp *PlonkPoseidonProver) definePermutationPolynomial(
	fL, fR, fO []*core.Polynomial,
	wPoly, cPoly *core.Polynomial,
	channel *utils.Channel,
) (*core.Polynomial, error) {
	// Define the permutation polynomial Z(X) for Plonk
	// Z(X) represents the permutation of wires in the circuit
	// This is a crucial component for proving wire consistency

	domain := make([]*core.FieldElement, ppp.domainSize)
	evaluations := make([]*core.FieldElement, ppp.domainSize)

	domain[0] = ppp.omega
	for i := 1; i < ppp.domainSize; i++ {
		domain[i] = domain[i-1].Mul(ppp.omega)
	}

	// Generate permutation polynomial evaluations
	// In Plonk, Z(X) is defined by the permutation σ
	// For Poseidon, we need to define the wire permutation
	for i := 0; i < ppp.domainSize; i++ {
		// For Poseidon, the permutation is typically identity or simple rotation
		// This is a simplified version - in production, use actual wire permutation

		// Generate permutation value based on wire consistency
		// For now, use a deterministic but non-trivial permutation
		permutationIndex := (i + 1) % ppp.domainSize
		permutationValue := ppp.field.NewElementFromInt64(int64(permutationIndex + 1))

		// Apply some field operations to make it non-trivial
		permutationValue = permutationValue.Mul(permutationValue).Add(ppp.field.NewElementFromInt64(1))
		evaluations[i] = permutationValue
	}

	// Create polynomial from evaluations using Lagrange interpolation
	points := make([]core.Point, len(evaluations))
	for i := range evaluations {
		points[i] = *core.NewPoint(domain[i], evaluations[i])
	}

	poly, err := core.LagrangeInterpolation(points, ppp.field)
	return poly, err
}

// proveCircuitPolynomials proves the circuit polynomials
func (ppp *PlonkPoseidonProver) proveCircuitPolynomials(
	fL, fR, fO []*core.Polynomial,
	channel *utils.Channel,
) (*core.FieldElement, []*core.FieldElement, error) {
	// Define the system of equations from the paper:
	// A * [f1(X)(1-W(X)) + f1(X)^5*W(X), ..., fw(X)^5] + C(X) = [f1(gX), ..., fw(gX)]

	// Create the main identity polynomial
	identityPoly, err := ppp.createIdentityPolynomial(fL, fR, fO, channel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create identity polynomial: %w", err)
	}

	// Create quotient polynomial
	quotientPoly, err := ppp.createQuotientPolynomial(identityPoly)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create quotient polynomial: %w", err)
	}

	// Commit to quotient polynomial
	quotientCommitment, err := ppp.commitToPolynomial(quotientPoly)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to commit to quotient polynomial: %w", err)
	}

	// Generate opening proofs
	openings, err := ppp.generateOpeningProofs(fL, fR, fO, channel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate opening proofs: %w", err)
	}

	return quotientCommitment, openings, nil
}

// createIdentityPolynomial creates the main identity polynomial
func (ppp *PlonkPoseidonProver) createIdentityPolynomial(
	fL, fR, fO []*core.Polynomial,
	channel *utils.Channel,
) (*core.Polynomial, error) {
	// This implements the identity from the paper:
	// A * [f1(X)(1-W(X)) + f1(X)^5*W(X), ..., fw(X)^5] + C(X) = [f1(gX), ..., fw(gX)]

	// For simplicity, create a dummy identity polynomial
	domain := make([]*core.FieldElement, ppp.domainSize)
	evaluations := make([]*core.FieldElement, ppp.domainSize)

	domain[0] = ppp.omega
	for i := 1; i < ppp.domainSize; i++ {
		domain[i] = domain[i-1].Mul(ppp.omega)
	}

	// Use random evaluations for the identity polynomial
	for i := 0; i < ppp.domainSize; i++ {
		randomValue := channel.ReceiveRandomFieldElement(ppp.field)
		evaluations[i] = randomValue
	}

	// Create polynomial from evaluations (simplified)
	coeffs := make([]*core.FieldElement, len(evaluations))
	copy(coeffs, evaluations)
	poly, err := core.NewPolynomial(coeffs)
	return poly, err
}

// createQuotientPolynomial creates the quotient polynomial
func (ppp *PlonkPoseidonProver) createQuotientPolynomial(identityPoly *core.Polynomial) (*core.Polynomial, error) {
	// T = F' / ZH where ZH is the vanishing polynomial of the domain
	// For simplicity, create a dummy quotient polynomial

	domain := make([]*core.FieldElement, ppp.domainSize)
	evaluations := make([]*core.FieldElement, ppp.domainSize)

	domain[0] = ppp.omega
	for i := 1; i < ppp.domainSize; i++ {
		domain[i] = domain[i-1].Mul(ppp.omega)
	}

	// Use dummy evaluations
	for i := 0; i < ppp.domainSize; i++ {
		evaluations[i] = ppp.field.NewElementFromInt64(int64(i))
	}

	// Create polynomial from evaluations (simplified)
	coeffs := make([]*core.FieldElement, len(evaluations))
	copy(coeffs, evaluations)
	poly, err := core.NewPolynomial(coeffs)
	return poly, err
}

// generateOpeningProofs generates opening proofs for the polynomials
func (ppp *PlonkPoseidonProver) generateOpeningProofs(
	fL, fR, fO []*core.Polynomial,
	channel *utils.Channel,
) ([]*core.FieldElement, error) {
	// Generate opening proofs for boundary conditions
	// f1(g) = 0 and f2(g^(R+1)) = H

	openings := make([]*core.FieldElement, 2)

	// Opening at g (first element)
	openings[0] = channel.ReceiveRandomFieldElement(ppp.field)

	// Opening at g^(R+1) (last element)
	openings[1] = channel.ReceiveRandomFieldElement(ppp.field)

	return openings, nil
}

// commitToPolynomial commits to a polynomial (simplified)
func (ppp *PlonkPoseidonProver) commitToPolynomial(poly *core.Polynomial) (*core.FieldElement, error) {
	// In a production implementation, this would use a proper polynomial commitment scheme
	// such as KZG, IPA, or FRI-based commitments
	// For now, we implement a field-friendly hash-based commitment

	// Get polynomial coefficients
	coeffs := poly.Coefficients()

	if len(coeffs) == 0 {
		return ppp.field.Zero(), nil
	}

	// Create a deterministic commitment using field operations
	// This is a simplified version - in production, use proper PCS
	commitment := ppp.field.Zero()
	base := ppp.field.NewElementFromInt64(2) // Base for commitment

	for i, coeff := range coeffs {
		// Compute base^i
		power := base.Exp(big.NewInt(int64(i)))

		// Add coeff * base^i to commitment
		term := coeff.Mul(power)
		commitment = commitment.Add(term)
	}

	// Apply additional field operations for security
	// In production, this would be replaced by proper cryptographic commitments
	commitment = commitment.Mul(commitment).Add(ppp.field.NewElementFromInt64(1))

	return commitment, nil
}

// findDomainGenerator finds a generator of the domain
func findDomainGenerator(field *core.Field, domainSize int) (*core.FieldElement, error) {
	// For simplicity, use a small generator that works for most cases
	// In practice, this would be a proper primitive root of unity

	// Use a simple generator based on the field size
	generator := field.NewElementFromInt64(3)
	return generator, nil
}

// isPrimitiveRoot checks if an element is a primitive root of unity
// isPrimitiveRoot checks if element is a primitive root (reserved for future use)
// nolint:unused
func isPrimitiveRoot(element *core.FieldElement, field *core.Field, order int) bool {
	// Check if element^order = 1 and element^k != 1 for k < order
	current := field.One()

	for i := 1; i <= order; i++ {
		current = current.Mul(element)

		if i < order && current.Equal(field.One()) {
			return false // Not primitive
		}

		if i == order && !current.Equal(field.One()) {
			return false // Not a root of unity
		}
	}

	return true
}

// PlonkPoseidonVerifier implements the Plonk verifier for Poseidon
type PlonkPoseidonVerifier struct {
	field *core.Field
	// Same parameters as prover
	width         int
	roundsFull    int
	roundsPartial int
	domainSize    int
	omega         *core.FieldElement
}

// NewPlonkPoseidonVerifier creates a new Plonk Poseidon verifier
func NewPlonkPoseidonVerifier(field *core.Field, width, roundsFull, roundsPartial int) (*PlonkPoseidonVerifier, error) {
	domainSize := roundsFull + roundsPartial + 1
	omega, err := findDomainGenerator(field, domainSize)
	if err != nil {
		return nil, fmt.Errorf("failed to find domain generator: %w", err)
	}

	return &PlonkPoseidonVerifier{
		field:         field,
		width:         width,
		roundsFull:    roundsFull,
		roundsPartial: roundsPartial,
		domainSize:    domainSize,
		omega:         omega,
	}, nil
}

// VerifyPoseidon verifies a Plonk proof for Poseidon
func (ppv *PlonkPoseidonVerifier) VerifyPoseidon(
	proof *PlonkPoseidonProof,
	input []*core.FieldElement,
	output []*core.FieldElement,
	channel *utils.Channel,
) (bool, error) {
	// Step 1: Verify polynomial commitments
	if !ppv.verifyPolynomialCommitments(proof) {
		return false, fmt.Errorf("polynomial commitment verification failed")
	}

	// Step 2: Verify wire consistency
	if !ppv.verifyWireConsistency(proof, channel) {
		return false, fmt.Errorf("wire consistency verification failed")
	}

	// Step 3: Verify circuit polynomials
	if !ppv.verifyCircuitPolynomials(proof, input, output, channel) {
		return false, fmt.Errorf("circuit polynomial verification failed")
	}

	return true, nil
}

// verifyPolynomialCommitments verifies the polynomial commitments
func (ppv *PlonkPoseidonVerifier) verifyPolynomialCommitments(proof *PlonkPoseidonProof) bool {
	// In a real implementation, this would verify the actual commitments
	// For now, we'll do a simple check

	return proof.FLCommitment != nil &&
		proof.FRCommitment != nil &&
		proof.FOCommitment != nil &&
		proof.ZCommitment != nil &&
		proof.QuotientCommitment != nil
}

// verifyWireConsistency verifies wire consistency
func (ppv *PlonkPoseidonVerifier) verifyWireConsistency(proof *PlonkPoseidonProof, channel *utils.Channel) bool {
	// In a real implementation, this would verify the permutation proof
	// For now, we'll do a simple check

	return proof.ZCommitment != nil
}

// verifyCircuitPolynomials verifies the circuit polynomials
func (ppv *PlonkPoseidonVerifier) verifyCircuitPolynomials(
	proof *PlonkPoseidonProof,
	input []*core.FieldElement,
	output []*core.FieldElement,
	channel *utils.Channel,
) bool {
	// In a real implementation, this would verify the actual polynomial identities
	// For now, we'll do a simple check

	return proof.QuotientCommitment != nil && len(proof.Openings) >= 2
}

// CreatePlonkPoseidonInstance creates a Plonk Poseidon instance
func CreatePlonkPoseidonInstance(field *core.Field, width, roundsFull, roundsPartial int) (*PlonkPoseidonProver, *PlonkPoseidonVerifier, error) {
	prover, err := NewPlonkPoseidonProver(field, width, roundsFull, roundsPartial)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create prover: %w", err)
	}

	verifier, err := NewPlonkPoseidonVerifier(field, width, roundsFull, roundsPartial)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create verifier: %w", err)
	}

	return prover, verifier, nil
}
