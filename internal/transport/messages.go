package transport

const (
	MsgUserAlreadyExists     = "User already exists"
	MsgUserCreated           = "User created successfully"
	MsgUserFailedToCreate    = "Failed to create user"
	MsgUserNotFound          = "User not found"
	MsgUserFailedToUpdate    = "Failed to update user"
	MsgUserUpdated           = "User updated successfully"
	MsgUserDeleted           = "User deleted successfully"
	MsgUserFailedToDelete    = "Failed to delete user"
	MsgUserRetrieved         = "User retrieved successfully"
	MsgUserFailedToRetrieve  = "Failed to retrieve user"
	MsgUserOwnsProducts      = "User still has products"
	MsgInvalidEmailPassword  = "Invalid email or password"
	MsgSignedIn              = "Signed in successfully"
	MsgUnauthorized          = "Unauthorized"
	MsgForbidden             = "Forbidden resource"
	MsgInvalidBody           = "Invalid request body"
	MsgValidationFailed      = "Validation failed"
	MsgInternal              = "Internal server error"
	MsgNotFound              = "Resource not found"
	MsgUsersOwnProfile       = "Users may only edit their own profile"
	MsgRolesAdminOnly        = "Only an admin can change roles"
	MsgProfileRetrieved      = "Profile retrieved successfully"
	MsgProductsRetrieved     = "Products retrieved successfully"
	MsgProductAlreadyExists  = "A product with the same name already exists"
	MsgProductNotFound       = "Product not found"
	MsgProductFailedToCreate = "Failed to create product"
	MsgProductFailedToDelete = "Failed to delete product"
	MsgProductFailedToUpdate = "Failed to update product"
	MsgProductCreated        = "Product created successfully"
	MsgProductDeleted        = "Product deleted successfully"
	MsgProductUpdated        = "Product updated successfully"
	MsgProductRetrieved      = "Product retrieved successfully"
	MsgProductFailedToFetch  = "Failed to fetch the products"
	MsgSearchUnavailable     = "Search is not configured"
)

const (
	MsgUsernameNotEmpty    = "The username cannot be empty."
	MsgUsernameMinLength   = "The username must be at least 5 characters long."
	MsgEmailNotEmpty       = "The email cannot be empty."
	MsgEmailFormatInvalid  = "Invalid email format."
	MsgPasswordNotEmpty    = "The password cannot be empty."
	MsgPasswordComplexity  = "Password must contain at least one number, one letter, one special character, and be at least 8 characters long."
	MsgPasswordTooLong     = "The password must be at most 72 bytes long."
	MsgRolesNotEmpty       = "The role cannot be empty."
	MsgRoleUnknown         = "Unknown role."
	MsgTitleNotEmpty       = "The product title cannot be empty."
	MsgDescriptionNotEmpty = "The product description cannot be empty."
	MsgQuantityMin         = "The quantity must be at least 1."
	MsgPriceMin            = "The price cannot be negative."
)
