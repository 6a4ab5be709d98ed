// Package memory packs typed slots into a single aligned block and allocates
// those blocks.
//
// A Packer computes the offset table for a sequence of slot layouts. It
// appends in declaration order, and when the next slot would need padding it
// tries inserting it earlier so that later slots move forward to close the
// gap. The chosen arrangement is never larger than a plain append.
//
// A Heap allocates the block. The backing memory is a dynamically built
// struct whose fields sit at the packed offsets, so holders that carry Go
// pointers stay visible to the garbage collector.
package memory
