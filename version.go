package easyplot

// Version follows semantic versioning.
const Version = "0.2.0"
