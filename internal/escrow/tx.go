// Package escrow builds entry-function calls for the tuition escrow contract
// and decodes its on-chain resources.
package escrow

import (
	"fmt"

	"github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/bcs"
)

// ModuleName is the contract module the backend targets.
const ModuleName = "tuition_escrow_v2"

// SecondsPerDay converts the API's _days inputs into contract seconds.
const SecondsPerDay = 86400

// AgreementParams are the arguments of create_agreement, already converted to
// the contract's units (octas and seconds). Range checks are the contract's
// concern, not ours.
type AgreementParams struct {
	InstallmentAmount uint64
	NumInstallments   uint64
	StartTimeSecs     uint64
	IntervalSecs      uint64
	PenaltyBps        uint64
	GracePeriodSecs   uint64
}

// CreateAgreement builds the create_agreement entry-function call.
// Argument order matches the contract signature exactly.
func CreateAgreement(module aptos.AccountAddress, p AgreementParams) (*aptos.EntryFunction, error) {
	args, err := u64Args(
		p.InstallmentAmount,
		p.NumInstallments,
		p.StartTimeSecs,
		p.IntervalSecs,
		p.PenaltyBps,
		p.GracePeriodSecs,
	)
	if err != nil {
		return nil, err
	}
	return entryFunction(module, "create_agreement", args), nil
}

// PayNextInstallment builds the pay_next_installment entry-function call.
func PayNextInstallment(module aptos.AccountAddress, agreementID uint64) (*aptos.EntryFunction, error) {
	args, err := u64Args(agreementID)
	if err != nil {
		return nil, err
	}
	return entryFunction(module, "pay_next_installment", args), nil
}

// StoreTag returns the fully-qualified type tag of the module's Store
// resource under the given module address.
func StoreTag(module aptos.AccountAddress) string {
	return fmt.Sprintf("%s::%s::Store", module.String(), ModuleName)
}

func entryFunction(module aptos.AccountAddress, function string, args [][]byte) *aptos.EntryFunction {
	return &aptos.EntryFunction{
		Module: aptos.ModuleId{
			Address: module,
			Name:    ModuleName,
		},
		Function: function,
		ArgTypes: []aptos.TypeTag{},
		Args:     args,
	}
}

// u64Args BCS-encodes each value as an unsigned 64-bit integer.
func u64Args(values ...uint64) ([][]byte, error) {
	args := make([][]byte, 0, len(values))
	for _, v := range values {
		b, err := bcs.SerializeU64(v)
		if err != nil {
			return nil, fmt.Errorf("encode u64 argument: %w", err)
		}
		args = append(args, b)
	}
	return args, nil
}
