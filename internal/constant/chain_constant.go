package constant

type Chain string

const (
	ChainEthereum Chain = "ethereum"
	ChainBase     Chain = "base"
	ChainArbitrum Chain = "arbitrum"
)

// SupportedChains lists all chains the Compass API accepts.
var SupportedChains = []Chain{
	ChainEthereum,
	ChainBase,
	ChainArbitrum,
}

// IsChainSupported checks if a given chain is in the list of supported chains.
func IsChainSupported(chain string) bool {
	for _, supportedChain := range SupportedChains {
		if string(supportedChain) == chain {
			return true
		}
	}
	return false
}
