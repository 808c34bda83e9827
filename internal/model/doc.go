// Package model defines the data types shared by the advisor: the
// applicant profile, chats and chat messages.
package model
