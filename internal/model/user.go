package model

// User mirrors a row of the `users` table. The password hash is kept
// on the struct only where the repository needs it for credential
// verification; response types in the handler layer never embed it.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  PasswordHash – bcrypt hashed password (users.password_hash).
//  FirstName    – users.firstname.
//  LastName     – users.lastname.
//  Address      – users.address.
//  Phone        – users.phone.
//  MailID       – users.mailid, the contact email.
//  Role         – parsed users.usertype (admin, seller or user).
type User struct {
	ID           uint64
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Address      string
	Phone        string
	MailID       string
	Role         Role
}

// Identity is the resolved caller identity attached to a request
// after token validation. It is looked up fresh from the users table
// on every authenticated request, so a role change or deletion takes
// effect immediately rather than at token expiry.
type Identity struct {
	ID       uint64
	Username string
	Role     Role
}
