package auth

// CodeUnauthenticated is returned when a request carries no usable identity.
const CodeUnauthenticated = "UNAUTHENTICATED"
