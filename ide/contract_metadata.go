package ide

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/fxamacker/cbor"
)

// ContractMetadata is a CBOR-encoded structure describing contract information which is embedded within smart contract
// bytecode by the Solidity compiler (unless explicitly directed not to).
// Reference: https://docs.soliditylang.org/en/latest/metadata.html
type ContractMetadata map[string]any

// metadataHashPrefixes defines patterns to use in search for CBOR-encoded contract metadata appended to the end of
// bytecode.
var metadataHashPrefixes = [][]byte{
	{0xa1, 0x65, 98, 122, 122, 114, 48, 0x58, 0x20},  // a1 65 "bzzr0" 0x58 0x20 (solc <= 0.5.8)
	{0xa2, 0x65, 98, 122, 122, 114, 48, 0x58, 0x20},  // a2 65 "bzzr0" 0x58 0x20 (solc >= 0.5.9)
	{0xa2, 0x65, 98, 122, 122, 114, 49, 0x58, 0x20},  // a2 65 "bzzr1" 0x58 0x20 (solc >= 0.5.11)
	{0xa2, 0x64, 0x69, 0x70, 0x66, 0x73, 0x58, 0x22}, // a2 64 "ipfs" 0x58 0x22 (solc >= 0.6.0)
}

// ExtractContractMetadata extracts contract metadata from provided bytecode and returns it. If contract metadata
// could not be extracted, nil is returned.
func ExtractContractMetadata(bytecode []byte) ContractMetadata {
	for _, metadataHashPrefix := range metadataHashPrefixes {
		metadataOffset := bytes.LastIndex(bytecode, metadataHashPrefix)
		if metadataOffset == -1 {
			continue
		}

		var metadata ContractMetadata
		if err := cbor.Unmarshal(bytecode[metadataOffset:], &metadata); err != nil {
			continue
		}
		return metadata
	}
	return nil
}

// CompilerVersion returns the solc version recorded under the "solc" key (three bytes: major, minor, patch), or an
// empty string if it is absent.
func (m ContractMetadata) CompilerVersion() string {
	raw, ok := m["solc"].([]byte)
	if !ok || len(raw) != 3 {
		return ""
	}
	return fmt.Sprintf("%d.%d.%d", raw[0], raw[1], raw[2])
}

// compilerVersionFromBytecode decodes hex bytecode and returns the solc version from its metadata, if any. Unlinked
// bytecode (containing library placeholders) does not decode and yields an empty string.
func compilerVersionFromBytecode(bytecode string) string {
	decoded, err := hexutil.Decode(prefixHex(bytecode))
	if err != nil {
		return ""
	}
	metadata := ExtractContractMetadata(decoded)
	if metadata == nil {
		return ""
	}
	return metadata.CompilerVersion()
}
