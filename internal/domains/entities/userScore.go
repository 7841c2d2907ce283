package entities

// UserScore is one user's persisted score record. TotalScore accumulates
// from solo practice, BattleScore from head-to-head wins; HonorScore and
// Rank are derived wholesale by the rank recomputer.
type UserScore struct {
	UserId      string `dynamodbav:"UserId"`
	TotalScore  int    `dynamodbav:"TotalScore"`
	BattleScore int    `dynamodbav:"BattleScore"`
	HonorScore  int    `dynamodbav:"HonorScore"`
	Rank        int    `dynamodbav:"Rank"`
}

// UserRank is the derived pair written back per user on every recompute.
type UserRank struct {
	HonorScore int
	Rank       int
}
