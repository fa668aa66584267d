package state

import ethcrypto "github.com/ethereum/go-ethereum/crypto"

var (
	tokenPrefix   = []byte("token:")
	tokenListKey  = ethcrypto.Keccak256([]byte("token-list"))
	balancePrefix = []byte("balance:")

	bountyRecordPrefix  = []byte("bounty/record/")
	bountyCounterKey    = []byte("bounty/next-id")
	bountyIndexAllKey   = []byte("bounty/index/all")
	bountyOwnerPrefix   = []byte("bounty/index/owner/")
	bountyTokenPrefix   = []byte("bounty/index/token/")
	bountyApplicantPref = []byte("bounty/index/applicant/")

	projectRecordPrefix = []byte("project/record/")
	projectCounterKey   = []byte("project/next-id")
	projectOwnerPrefix  = []byte("project/index/owner/")

	paramPrefix = []byte("params/")
)
