package repoargs

type RepositoryName string

const (
	AccountRepoName     RepositoryName = "account"
	RiskRuleRepoName    RepositoryName = "risk_rule"
	TransactionRepoName RepositoryName = "transaction"
	CreditCardRepoName  RepositoryName = "credit_card"
)
