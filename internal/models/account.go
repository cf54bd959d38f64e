package models

// Account roles stored in the accounts table.
const (
	RoleStudent  = "student"
	RoleEducator = "educator"
)

// Account is a registered user. The table key is composite: email is the
// partition key and role the sort key, so the same address may hold both a
// student and an educator account.
type Account struct {
	ID           string `dynamodbav:"id" json:"id"`
	Name         string `dynamodbav:"name" json:"name"`
	Email        string `dynamodbav:"email" json:"email"`
	Role         string `dynamodbav:"role" json:"role"`
	PasswordHash string `dynamodbav:"password" json:"-"`
	ClassName    string `dynamodbav:"class_name,omitempty" json:"class_name,omitempty"`
	RollNo       string `dynamodbav:"roll_no,omitempty" json:"roll_no,omitempty"`
}
