package events

import (
	"math/big"
	"strconv"
	"strings"

	"stallion/core/types"
)

func normalizeAsset(asset string) string {
	return types.NormalizeToken(asset)
}

func formatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func idString(id uint32) string {
	return strconv.FormatUint(uint64(id), 10)
}

func joinAddresses(addrs []types.Address) string {
	parts := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		parts = append(parts, addr.Hex())
	}
	return strings.Join(parts, ",")
}
