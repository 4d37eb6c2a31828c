package chain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Offline condition/collection/position id computation, mirroring the
// conditional-token contract's own helpers. Pure functions: no network, no
// signing, usable for verification and display before committing funds.

// bn128FieldPrime is the base field of alt_bn128; collection ids are
// compressed points on y^2 = x^3 + 3 over this field.
var bn128FieldPrime, _ = new(big.Int).SetString(
	"21888242871839275222246405745257275088696311157297823662689037894645226208583", 10)

var bn128B = big.NewInt(3)

// oddFlag marks a compressed point whose y coordinate is odd.
var oddFlag = new(big.Int).Lsh(big.NewInt(1), 254)

// ConditionID computes keccak256(oracle ++ questionId ++ outcomeSlotCount).
func ConditionID(oracle common.Address, questionID common.Hash, outcomeSlotCount uint) common.Hash {
	count := new(big.Int).SetUint64(uint64(outcomeSlotCount))
	return crypto.Keccak256Hash(
		oracle.Bytes(),
		questionID.Bytes(),
		common.BigToHash(count).Bytes(),
	)
}

// CollectionID computes the collection id for a condition and index set,
// optionally combined with a parent collection. The scheme hashes onto the
// curve: increment x until x^3 + 3 has a root, pick the root whose parity
// matches the hash's top bit, add the parent's point when present, and
// flag the result with the final y parity.
func CollectionID(parentCollectionID common.Hash, conditionID common.Hash, indexSet *big.Int) (common.Hash, error) {
	if indexSet == nil || indexSet.Sign() <= 0 {
		return common.Hash{}, fmt.Errorf("index set must be positive")
	}

	seed := new(big.Int).SetBytes(crypto.Keccak256(
		conditionID.Bytes(),
		common.BigToHash(indexSet).Bytes(),
	))
	odd := seed.Bit(255) == 1

	x1, y1 := hashToPoint(seed, odd)

	parent := new(big.Int).SetBytes(parentCollectionID.Bytes())
	if parent.Sign() != 0 {
		x2, y2, err := decompressPoint(parent)
		if err != nil {
			return common.Hash{}, err
		}
		x1, y1 = curveAdd(x1, y1, x2, y2)
	}

	result := new(big.Int).Set(x1)
	if y1.Bit(0) == 1 {
		result.Xor(result, oddFlag)
	}

	return common.BigToHash(result), nil
}

// PositionID computes uint256(keccak256(collateral ++ collectionId)), the
// ERC1155 token id of a position.
func PositionID(collateral common.Address, collectionID common.Hash) *big.Int {
	return new(big.Int).SetBytes(crypto.Keccak256(
		collateral.Bytes(),
		collectionID.Bytes(),
	))
}

// hashToPoint increments x from the seed until x^3 + 3 is a quadratic
// residue, then selects the root matching the requested parity.
func hashToPoint(seed *big.Int, odd bool) (*big.Int, *big.Int) {
	p := bn128FieldPrime
	x := new(big.Int).Set(seed)

	for {
		x.Add(x, big.NewInt(1))
		x.Mod(x, p)

		yy := curveRHS(x)
		y := new(big.Int).ModSqrt(yy, p)
		if y == nil {
			continue
		}

		if odd != (y.Bit(0) == 1) {
			y.Sub(p, y)
		}
		return x, y
	}
}

// decompressPoint recovers the affine point encoded by a collection id:
// bit 254 carries the y parity, the remaining bits the x coordinate.
func decompressPoint(compressed *big.Int) (*big.Int, *big.Int, error) {
	p := bn128FieldPrime

	odd := compressed.Bit(254) == 1
	x := new(big.Int).Set(compressed)
	x.SetBit(x, 254, 0)
	x.SetBit(x, 255, 0)

	yy := curveRHS(x)
	y := new(big.Int).ModSqrt(yy, p)
	if y == nil {
		return nil, nil, fmt.Errorf("invalid parent collection id: not a curve point")
	}

	if odd != (y.Bit(0) == 1) {
		y.Sub(p, y)
	}

	return x, y, nil
}

func curveRHS(x *big.Int) *big.Int {
	p := bn128FieldPrime
	yy := new(big.Int).Mul(x, x)
	yy.Mod(yy, p)
	yy.Mul(yy, x)
	yy.Mod(yy, p)
	yy.Add(yy, bn128B)
	yy.Mod(yy, p)
	return yy
}

// curveAdd is affine point addition on y^2 = x^3 + 3 (a = 0).
func curveAdd(x1, y1, x2, y2 *big.Int) (*big.Int, *big.Int) {
	p := bn128FieldPrime

	var lambda *big.Int
	if x1.Cmp(x2) == 0 && y1.Cmp(y2) == 0 {
		// Doubling: lambda = 3*x^2 / 2*y
		num := new(big.Int).Mul(x1, x1)
		num.Mod(num, p)
		num.Mul(num, big.NewInt(3))
		num.Mod(num, p)

		den := new(big.Int).Lsh(y1, 1)
		den.Mod(den, p)
		lambda = num.Mul(num, new(big.Int).ModInverse(den, p))
	} else {
		// Chord: lambda = (y2-y1) / (x2-x1)
		num := new(big.Int).Sub(y2, y1)
		num.Mod(num, p)

		den := new(big.Int).Sub(x2, x1)
		den.Mod(den, p)
		lambda = num.Mul(num, new(big.Int).ModInverse(den, p))
	}
	lambda.Mod(lambda, p)

	x3 := new(big.Int).Mul(lambda, lambda)
	x3.Mod(x3, p)
	x3.Sub(x3, x1)
	x3.Sub(x3, x2)
	x3.Mod(x3, p)

	y3 := new(big.Int).Sub(x1, x3)
	y3.Mod(y3, p)
	y3.Mul(y3, lambda)
	y3.Mod(y3, p)
	y3.Sub(y3, y1)
	y3.Mod(y3, p)

	return x3, y3
}
