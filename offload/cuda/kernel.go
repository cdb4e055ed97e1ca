//go:build cuda

package cuda

// ptxBinmatvec holds one thread per output neuron. Inputs and weights
// are one byte per bit, weights row major by neuron.
const ptxBinmatvec = `
.version 6.0
.target sm_30
.address_size 64

.visible .entry binmatvec(
	.param .u64 p_in,
	.param .u64 p_w,
	.param .u64 p_thr,
	.param .u64 p_out,
	.param .u32 p_nin,
	.param .u32 p_nout
)
{
	.reg .pred %p<4>;
	.reg .b32 %r<16>;
	.reg .b64 %rd<16>;

	ld.param.u64 %rd1, [p_in];
	ld.param.u64 %rd2, [p_w];
	ld.param.u64 %rd3, [p_thr];
	ld.param.u64 %rd4, [p_out];
	ld.param.u32 %r1, [p_nin];
	ld.param.u32 %r2, [p_nout];
	cvta.to.global.u64 %rd1, %rd1;
	cvta.to.global.u64 %rd2, %rd2;
	cvta.to.global.u64 %rd3, %rd3;
	cvta.to.global.u64 %rd4, %rd4;

	mov.u32 %r3, %ctaid.x;
	mov.u32 %r4, %ntid.x;
	mov.u32 %r5, %tid.x;
	mad.lo.s32 %r6, %r3, %r4, %r5;
	setp.ge.u32 %p1, %r6, %r2;
	@%p1 bra DONE;

	mul.wide.u32 %rd5, %r6, %r1;
	add.s64 %rd6, %rd2, %rd5;
	mov.u64 %rd7, %rd1;
	mov.u32 %r7, 0;
	mov.u32 %r8, 0;
LOOP:
	setp.ge.u32 %p2, %r8, %r1;
	@%p2 bra STORE;
	ld.global.u8 %r9, [%rd7];
	ld.global.u8 %r10, [%rd6];
	setp.eq.u32 %p3, %r9, %r10;
	selp.u32 %r11, 1, 0, %p3;
	add.u32 %r7, %r7, %r11;
	add.s64 %rd7, %rd7, 1;
	add.s64 %rd6, %rd6, 1;
	add.u32 %r8, %r8, 1;
	bra LOOP;
STORE:
	mul.wide.u32 %rd8, %r6, 4;
	add.s64 %rd9, %rd3, %rd8;
	ld.global.u32 %r12, [%rd9];
	setp.ge.u32 %p1, %r7, %r12;
	selp.u32 %r13, 1, 0, %p1;
	cvt.u64.u32 %rd10, %r6;
	add.s64 %rd11, %rd4, %rd10;
	st.global.u8 [%rd11], %r13;
DONE:
	ret;
}
`
